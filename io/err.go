package io

import (
	"errors"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var (
	// Artifact errors
	ErrArtifactClosed = errors.New(f("artifact already committed or discarded"))
)

// ErrArtifact indicates the output path of a failed artifact operation.
type ErrArtifact struct {
	Path string
	Err  error
}

func (err *ErrArtifact) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrArtifact) Unwrap() error {
	return err.Err
}
