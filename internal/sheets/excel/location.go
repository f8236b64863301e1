package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

// errNotExist is returned by openLocationReader when the workbook is missing.
var errNotExist = errors.New("workbook does not exist")

// gsObject pairs a storage reader or writer with the client that made it, so closing one closes both.
type gsObject struct {
	io.Closer
	client *storage.Client
}

func (g gsObject) Close() error {
	err := g.Closer.Close()
	if cerr := g.client.Close(); err == nil {
		err = cerr
	}
	return err
}

type gsReader struct {
	*storage.Reader
	gsObject
}

func (g gsReader) Close() error { return g.gsObject.Close() }

type gsWriter struct {
	*storage.Writer
	gsObject
}

func (g gsWriter) Close() error { return g.gsObject.Close() }

func splitGS(u *url.URL) (bucket, object string) {
	// URL path has leading slash, but GS expects path relative to bucket.
	return u.Host, strings.TrimPrefix(u.Path, "/")
}

func openLocationReader(ctx context.Context, location string) (io.ReadCloser, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "gs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		bucket, object := splitGS(u)
		r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			client.Close()
			return nil, errNotExist
		}
		if err != nil {
			client.Close()
			return nil, err
		}
		return gsReader{Reader: r, gsObject: gsObject{Closer: r, client: client}}, nil

	case "file":
		fallthrough
	case "":
		f, err := os.Open(u.Path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNotExist
		}
		if err != nil {
			return nil, err
		}
		return f, nil

	default:
		return nil, fmt.Errorf("unable to determine how to open '%s'", location)
	}
}

func openLocationWriter(ctx context.Context, location string) (io.WriteCloser, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "gs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		bucket, object := splitGS(u)
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		return gsWriter{Writer: w, gsObject: gsObject{Closer: w, client: client}}, nil

	case "file":
		fallthrough
	case "":
		return os.Create(u.Path)

	default:
		return nil, fmt.Errorf("unable to determine how to open '%s'", location)
	}
}
