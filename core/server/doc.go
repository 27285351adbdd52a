// Package server holds configuration for the HTTP trigger surface started by `epos-sync start`.
package server
