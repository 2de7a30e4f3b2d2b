// Package api provides the client for the upstream instrument-data API.
//
// Endpoints:
//   - GET /exchanges/{isin}                : listings available for an ISIN
//   - GET /instrumentheader/{isin}         : quote snapshot (optional ?exchangeCode=)
//   - GET /charts/metadata/{isin}          : available chart time ranges
//   - GET /charts/data/{isin}              : chart series for a range/listing
//   - GET /logos/{isin}                    : instrument logo (SVG forms)
//
// Every request enforces the client timeout. Failures are classified into
// exactly three terminal kinds: NetworkError (connect/timeout), StatusError
// (non-2xx response) and ParseError (malformed body). The client never
// retries; retry and fallback policy belongs to the caller.
package api
