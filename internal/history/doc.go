// Package history implements the chart-data fetch and file cache.
//
// Each fetched series is stored verbatim as JSON under the cache
// directory, named
//
//	<isin>__<exchangeId>_<currencyId>__<timeRange>__<line|ohlc>.json
//
// so downstream dashboards can consume the files directly. When the
// upstream fails and a cached file exists, the cached payload is served
// instead of the error.
package history
