package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/arloliu/bcs/digest"
	"github.com/arloliu/bcs/encoding"
	"github.com/arloliu/bcs/errs"
	"github.com/arloliu/bcs/golden"
	"github.com/arloliu/bcs/schema"
)

type typeFlags struct {
	schemaPath string
	typeExpr   string
}

func (f *typeFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.schemaPath, "schema", "s", "", "YAML file with struct and enum definitions")
	fs.StringVarP(&f.typeExpr, "type", "t", "", "type expression, e.g. u64, vector<Coin> or Tx")
}

// resolve loads the schema file, if any, and resolves the type expression.
func (f *typeFlags) resolve(a *app) (*schema.Type, error) {
	if err := requireFlag("type", f.typeExpr); err != nil {
		return nil, err
	}

	if f.schemaPath == "" {
		return schema.ParseType(f.typeExpr, nil)
	}

	data, err := os.ReadFile(f.schemaPath)
	if err != nil {
		return nil, err
	}

	reg, err := schema.LoadRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.schemaPath, err)
	}
	a.logger.Debug("loaded schema", zap.String("path", f.schemaPath), zap.Strings("types", reg.Names()))

	return reg.Resolve(f.typeExpr)
}

// readValue parses the YAML value named by args (or stdin) against t.
func (a *app) readValue(t *schema.Type, args []string) (schema.Value, error) {
	data, source, err := a.readInput(args)
	if err != nil {
		return schema.Value{}, err
	}

	v, err := schema.ParseValue(data, t)
	if err != nil {
		return schema.Value{}, fmt.Errorf("%s: %w", source, err)
	}

	return v, nil
}

func runEncode(a *app, args []string) error {
	var tf typeFlags

	fs, verbose := a.newFlagSet("encode")
	tf.register(fs)
	if err := a.parse(fs, verbose, args); err != nil {
		return err
	}

	t, err := tf.resolve(a)
	if err != nil {
		return err
	}

	v, err := a.readValue(t, fs.Args())
	if err != nil {
		return err
	}

	encoded, err := schema.Encode(v, t)
	if err != nil {
		return err
	}
	a.logger.Debug("encoded value", zap.Stringer("type", t), zap.Int("bytes", len(encoded)))

	_, err = fmt.Fprintln(a.stdout, hex.EncodeToString(encoded))

	return err
}

func runDecode(a *app, args []string) error {
	var (
		tf       typeFlags
		output   string
		maxDepth int
	)

	fs, verbose := a.newFlagSet("decode")
	tf.register(fs)
	fs.StringVarP(&output, "output", "o", "yaml", "output format: yaml, cbor or hex")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum struct and enum nesting (0 uses the library default)")
	if err := a.parse(fs, verbose, args); err != nil {
		return err
	}

	if output != "yaml" && output != "cbor" && output != "hex" {
		return usagef("unknown output format %q", output)
	}

	t, err := tf.resolve(a)
	if err != nil {
		return err
	}

	var text string
	if rest := fs.Args(); len(rest) == 1 && rest[0] != "-" {
		text = rest[0]
	} else {
		data, _, err := a.readInput(rest)
		if err != nil {
			return err
		}
		text = string(data)
	}

	raw, err := golden.ParseHex(text)
	if err != nil {
		return usagef("%v", err)
	}

	var opts []encoding.DecoderOption
	if maxDepth > 0 {
		opts = append(opts, encoding.WithMaxDepth(maxDepth))
	}

	v, err := schema.Decode(raw, t, opts...)
	if err != nil {
		return a.decodeFailure(err)
	}

	return a.writeValue(v, t, output)
}

// decodeFailure reports the failing kind and offset of a decode error.
func (a *app) decodeFailure(err error) error {
	kind := errs.KindOf(err)
	if kind == nil {
		return err
	}

	offset, _ := errs.OffsetOf(err)
	a.logger.Debug("decode failed", zap.String("kind", kind.Error()), zap.Int("offset", offset), zap.Error(err))

	return fmt.Errorf("decode failed: %v at offset %d", kind, offset)
}

func (a *app) writeValue(v schema.Value, t *schema.Type, output string) error {
	switch output {
	case "cbor":
		native, err := schema.ToNative(v, t)
		if err != nil {
			return err
		}

		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return err
		}

		out, err := em.Marshal(native)
		if err != nil {
			return fmt.Errorf("cbor: %w", err)
		}

		return a.writeOutput("", out)
	case "hex":
		encoded, err := schema.Encode(v, t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, hex.EncodeToString(encoded))

		return err
	default:
		out, err := schema.FormatValue(v, t)
		if err != nil {
			return err
		}

		return a.writeOutput("", out)
	}
}

func runDigest(a *app, args []string) error {
	var (
		tf         typeFlags
		intentText string
		domain     string
	)

	fs, verbose := a.newFlagSet("digest")
	tf.register(fs)
	fs.StringVar(&intentText, "intent", "0,0,0", "Blake2b-256 intent prefix: scope,version,app")
	fs.StringVar(&domain, "domain", "", "use BLAKE3 keyed with this ASCII domain instead of Blake2b-256")
	if err := a.parse(fs, verbose, args); err != nil {
		return err
	}

	if fs.Changed("intent") && domain != "" {
		return usagef("--intent and --domain are mutually exclusive")
	}

	t, err := tf.resolve(a)
	if err != nil {
		return err
	}

	v, err := a.readValue(t, fs.Args())
	if err != nil {
		return err
	}

	encoded, err := schema.Encode(v, t)
	if err != nil {
		return err
	}

	var d digest.Digest
	if domain != "" {
		key, err := digest.NewDomainKey(domain)
		if err != nil {
			return usagef("%v", err)
		}
		d = digest.Keyed(key, encoded)
	} else {
		intent, err := digest.ParseIntent(intentText)
		if err != nil {
			return usagef("%v", err)
		}
		d = digest.WithIntent(intent, encoded)
	}
	a.logger.Debug("digest", zap.Int("bytes", len(encoded)), zap.Stringer("digest", d))

	_, err = fmt.Fprintln(a.stdout, d)

	return err
}
