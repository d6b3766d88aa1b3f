package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/bcs/golden"
)

func runVerify(a *app, args []string) error {
	fs, verbose := a.newFlagSet("verify")
	quiet := fs.BoolP("quiet", "q", false, "only report failures")
	if err := a.parse(fs, verbose, args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return usagef("at least one golden file is required")
	}

	var passed, failed int
	for _, path := range fs.Args() {
		suite, err := golden.LoadFile(path)
		if err != nil {
			return err
		}
		a.logger.Debug("loaded golden file",
			zap.String("path", path),
			zap.Int("vectors", len(suite.Vectors)),
			zap.Int("rejects", len(suite.Rejects)))

		for _, r := range suite.Verify() {
			if r.Passed() {
				passed++
				if !*quiet {
					fmt.Fprintf(a.stdout, "ok    %s: %s\n", path, r.Name)
				}

				continue
			}

			failed++
			fmt.Fprintf(a.stdout, "FAIL  %s: %s: %v\n", path, r.Name, r.Err)
		}
	}

	fmt.Fprintf(a.stdout, "%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return fmt.Errorf("%d golden checks failed", failed)
	}

	return nil
}
