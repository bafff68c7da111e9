// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", s3.WithPrefix("signatures/"))
//
//	// or with an existing client
//	store := s3.NewStore(client, "my-bucket", "signatures/")
//
// Reads issue ranged GetObject calls. Writes stream through the multipart
// uploader and become visible on Close.
package s3
