package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peekback/peekback"
	"github.com/peekback/peekback/pkg/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func run(args []string) error {
	fs := flag.NewFlagSet("pbcut", flag.ContinueOnError)
	var (
		conf   logger.Config
		delim  = fs.String("d", "\n", "record delimiter in the input")
		sep    = fs.String("s", "\n", "record separator written to the output")
		suffix = fs.String("suffix", ".cut", "output file suffix when cutting files")
		strict = fs.Bool("strict", false, "fail if the input ends with an unterminated record")
	)
	conf.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *delim == "" {
		return peekback.ErrEmptyDelimiter
	}
	log, err := logger.New(conf)
	if err != nil {
		return err
	}
	defer log.Sync()
	files := fs.Args()
	if len(files) == 0 {
		n, err := cut(os.Stdin, os.Stdout, []byte(*delim), []byte(*sep), *strict)
		if err != nil {
			return err
		}
		log.Info("done", zap.String("input", "stdin"), zap.Int("records", n))
		return nil
	}
	g, ctx := errgroup.WithContext(context.Background())
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := cutFile(path, path+*suffix, []byte(*delim), []byte(*sep), *strict)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			log.Info("done", zap.String("input", path), zap.Int("records", n))
			return nil
		})
	}
	return g.Wait()
}

func cutFile(in, out string, delim, sep []byte, strict bool) (n int, err error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	s, err := peekback.Bytes(src)
	if err != nil {
		return 0, multierr.Append(err, src.Close())
	}
	// The wrapper owns src now; close it through the stream's guard.
	defer func() {
		err = multierr.Append(err, s.Guard().Close())
	}()
	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, dst.Close())
	}()
	return cutStream(s, dst, delim, sep, strict)
}

// cut copies raw to w, replacing every delim with sep. It reports the number
// of records written. With strict set, input that ends without a final
// delimiter fails with peekback.ErrTruncated.
func cut(raw any, w io.Writer, delim, sep []byte, strict bool) (int, error) {
	s, err := peekback.Bytes(raw)
	if err != nil {
		return 0, err
	}
	return cutStream(s, w, delim, sep, strict)
}

func cutStream(s *peekback.Stream[byte], w io.Writer, delim, sep []byte, strict bool) (int, error) {
	var n int
	for {
		next, err := s.Peek(1)
		if err != nil {
			return n, err
		}
		if len(next) == 0 {
			return n, nil
		}
		rec, err := s.ReadUntil(delim, !strict)
		if err != nil {
			return n, err
		}
		rec = bytes.TrimSuffix(rec, delim)
		if _, err := w.Write(append(rec, sep...)); err != nil {
			return n, err
		}
		n++
	}
}
