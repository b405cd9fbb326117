// Package services holds the reader-side workflows of the paywall client:
// listing and opening articles, paying for access and claiming a license.
package services
