// Package cloudwriter uploads exported report files to object storage. A
// writer buffers everything handed to it and ships the object on Close.
package cloudwriter

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
