// Package main is the entry point for the domfind command.
//
// domfind locates elements in HTML documents using CSS, XPath or named
// selector kinds, optionally running page scripts and waiting for elements
// to appear.
//
// Configuration:
//   - Environment variables (DOMFIND_DEFAULT_WAIT, DOMFIND_LOG_LEVEL, ...)
//   - CLI flags (override env vars)
//
// Usage:
//
//	domfind find --file page.html field "Email"
//	domfind all --file page.html --json link ""
//	domfind scan ./site button "Submit"
//	domfind kinds --selectors custom.yaml
//
// Signals:
//   - SIGINT, SIGTERM: cancel pending lookups
package main
