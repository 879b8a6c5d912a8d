// Package scanner submits uploaded files to the VirusTotal v2 file scan API
// and normalizes the provider's answer.
//
// Submit has exactly three outcomes: a *ScanResult, or a *ScanFailure whose
// Kind is InvalidResponse, UpstreamUnavailable or Internal. Nothing is cached
// and nothing is retried; two identical requests produce two provider calls.
package scanner
