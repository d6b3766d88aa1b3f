package main

import (
	"go.uber.org/zap"

	"github.com/arloliu/bcs/envelope"
	"github.com/arloliu/bcs/format"
)

func runPack(a *app, args []string) error {
	var (
		compression string
		out         string
		maxSize     int
	)

	fs, verbose := a.newFlagSet("pack")
	fs.StringVarP(&compression, "compression", "c", "zstd", "payload compression: none, zstd, s2 or lz4")
	fs.StringVar(&out, "out", "", "write the frame to this file instead of stdout")
	fs.IntVar(&maxSize, "max-size", envelope.DefaultMaxPayloadSize, "maximum payload size in bytes")
	if err := a.parse(fs, verbose, args); err != nil {
		return err
	}

	ct, err := format.ParseCompression(compression)
	if err != nil {
		return usagef("%v", err)
	}

	payload, source, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}

	frame, err := envelope.Seal(payload, envelope.WithCompression(ct), envelope.WithMaxPayloadSize(maxSize))
	if err != nil {
		return err
	}
	a.logger.Debug("sealed envelope",
		zap.String("source", source),
		zap.Stringer("compression", ct),
		zap.Int("payload", len(payload)),
		zap.Int("frame", len(frame)))

	return a.writeOutput(out, frame)
}

func runUnpack(a *app, args []string) error {
	var (
		out     string
		maxSize int
	)

	fs, verbose := a.newFlagSet("unpack")
	fs.StringVar(&out, "out", "", "write the payload to this file instead of stdout")
	fs.IntVar(&maxSize, "max-size", envelope.DefaultMaxPayloadSize, "maximum payload size in bytes")
	if err := a.parse(fs, verbose, args); err != nil {
		return err
	}

	frame, source, err := a.readInput(fs.Args())
	if err != nil {
		return err
	}

	limit := envelope.WithMaxPayloadSize(maxSize)

	header, err := envelope.ReadHeader(frame, limit)
	if err != nil {
		return err
	}
	a.logger.Debug("envelope header",
		zap.String("source", source),
		zap.Stringer("compression", header.Compression),
		zap.Uint64("size", header.Size),
		zap.Int("compressed", header.CompressedSize),
		zap.Uint64("checksum", header.Checksum))

	payload, err := envelope.Open(frame, limit)
	if err != nil {
		return err
	}

	return a.writeOutput(out, payload)
}
