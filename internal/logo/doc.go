// Package logo implements the instrument logo cache.
//
// Logos are fetched at most once per ISIN and stored as <isin>.svg under
// the cache directory. Two upstream response forms are supported, both
// yielding SVG on disk: a raw SVG document, and a JSON object carrying the
// SVG markup in an "svg" field. Other content types are skipped without
// error; a logo is decoration, never a reason to degrade the session.
package logo
