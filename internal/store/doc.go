// Package store fetches objects from a bucket via gocloud.dev/blob.
//
// Buckets are addressed either by a bare S3 bucket name, from which a
// gocloud URL is synthesized (region and endpoint become URL query
// parameters), or by a full bucket URL for any registered driver
// (s3://, gs://, mem://, ...). Credential and region discovery beyond
// an explicit override is left to the driver's provider chain.
//
// Fetch failures are classified into the sentinel errors ErrNotFound and
// ErrAccessDenied via gcerrors codes; anything else surfaces as a
// wrapped transport error.
package store
