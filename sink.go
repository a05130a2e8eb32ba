package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/quantifiedbob/basis-export/pkg/basis"
)

// fileSink writes artifacts under a directory, one file per
// date, kind and format.
type fileSink struct {
	dir string
}

func (s *fileSink) Store(_ context.Context, artifact basis.Artifact) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "error creating output directory %s", s.dir)
	}
	name := fmt.Sprintf("basis-data-%s-%s.%s", artifact.Date, kindSlug(artifact.Kind), artifact.Format.Extension())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return errors.Wrapf(err, "error writing %s", path)
	}
	return nil
}

// kindSlug keeps the historical plural for activity files.
func kindSlug(k basis.Kind) string {
	if k == basis.KindActivity {
		return "activities"
	}
	return string(k)
}
