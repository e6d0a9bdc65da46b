// Package oci pushes finished bundles to OCI registries.
//
// A bundle is uploaded as an artifact of type
// application/vnd.joshua.bundle.v1 with one layer, a reproducible gzipped
// tar of the bundle directory. Any OCI 1.1 registry can store it and
// `oras pull` restores the directory with its file modes.
//
// Credentials are taken from PushOptions when set and from the Docker
// configuration file otherwise.
package oci
