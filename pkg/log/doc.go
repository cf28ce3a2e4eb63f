// Package log is a small opinionated wrapper around the standard library
// logger. It exists so pipeline code can take an optional, named logging
// hook at the component boundary instead of embedding print statements in
// search logic.
//
// Key features:
//
//   - Per-component loggers via ForComponent(name)
//   - Automatic prefix in every line: `[name]`
//   - Level helpers: Infof, Warnf, Errorf, Debugf
//   - Debug can be enabled globally (SetGlobalDebug) or per component
//     (EnableDebugFor / DisableDebugFor)
//   - Central output writer (SetOutput) that updates existing loggers,
//     which is what the tests use to capture output
//
// Structured fields, JSON output and rotation are intentionally out of
// scope; the consumers of this library bring their own observability stack.
package log
