// sbif - SBIF codec CLI tool
//
// Usage:
//
//	sbif dump [file]                          Decode an SBIF stream and print the value tree
//	sbif to-json [file]                       Decode an SBIF stream to JSON
//	sbif from-json [--compress=KIND[:N]] [file]  Encode JSON as an SBIF stream on stdout
//	sbif header [file]                        Print the stream header
//	sbif version                              Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Neumenon/sbif/sbif"
)

const libVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	compress := sbif.DefaultCompression()
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--compress="):
			c, err := parseCompressArg(strings.TrimPrefix(arg, "--compress="))
			if err != nil {
				fatal("%v", err)
			}
			compress = c
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "dump":
		cmdDump(input)
	case "to-json":
		cmdToJSON(input)
	case "from-json":
		cmdFromJSON(input, compress)
	case "header":
		cmdHeader(input)
	case "version", "-v", "--version":
		fmt.Printf("sbif %s (format version 1)\n", libVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `sbif - SBIF codec CLI tool

Usage:
  sbif dump [file]                             Decode an SBIF stream and print the value tree
  sbif to-json [file]                          Decode an SBIF stream to JSON
  sbif from-json [--compress=KIND[:N]] [file]  Encode JSON as an SBIF stream on stdout
  sbif header [file]                           Print the stream header
  sbif version                                 Print version info

Options:
  --compress=KIND[:N]  Transport for from-json: none, deflate, gzip or zlib,
                       with an optional level N (default: gzip:6)

If no file is given, reads from stdin.

Examples:
  echo '{"id":1,"name":"a"}' | sbif from-json > data.sbif
  sbif dump data.sbif
  sbif to-json data.sbif

  echo '[1,2,3]' | sbif from-json --compress=none | sbif header

Data-carrying enum variants need a variant table to decode, which the
CLI does not have; streams containing them are reported as an error.
`)
}

func parseCompressArg(s string) (sbif.Compression, error) {
	name, levelStr, hasLevel := strings.Cut(s, ":")
	kind, err := sbif.ParseCompressionKind(name)
	if err != nil {
		return sbif.Compression{}, err
	}
	c := sbif.Compression{Kind: kind, Level: 6}
	if hasLevel {
		n, err := strconv.ParseUint(levelStr, 10, 32)
		if err != nil {
			return sbif.Compression{}, fmt.Errorf("bad compression level %q: %v", levelStr, err)
		}
		c.Level = uint32(n)
	}
	return c, nil
}

// cmdDump: SBIF stream -> indented value tree
func cmdDump(r io.Reader) {
	d, err := sbif.NewDecoder(r)
	if err != nil {
		fatal("read header: %v", err)
	}
	v, err := sbif.DecodeValue(d, nil)
	if err != nil {
		fatal("decode: %v", err)
	}
	dumpValue(os.Stdout, v, 0)
}

func dumpValue(w io.Writer, v *sbif.Value, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v.Kind() {
	case sbif.KindSeq, sbif.KindTuple, sbif.KindTupleStruct:
		fmt.Fprintf(w, "%s%s\n", pad, v)
		for _, el := range v.Elems() {
			dumpValue(w, el, indent+1)
		}
	case sbif.KindMap:
		fmt.Fprintf(w, "%s%s\n", pad, v)
		for _, en := range v.Entries() {
			fmt.Fprintf(w, "%s  %s:\n", pad, en.Key)
			dumpValue(w, en.Value, indent+2)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", pad, v)
	}
}

// cmdToJSON: SBIF stream -> JSON
func cmdToJSON(r io.Reader) {
	d, err := sbif.NewDecoder(r)
	if err != nil {
		fatal("read header: %v", err)
	}
	v, err := sbif.DecodeValue(d, nil)
	if err != nil {
		fatal("decode: %v", err)
	}
	out, err := json.MarshalIndent(toJSON(v), "", "  ")
	if err != nil {
		fatal("convert to JSON: %v", err)
	}
	fmt.Println(string(out))
}

// toJSON maps a value tree to JSON-marshalable data. Bytes become
// base64 strings and non-string map keys force a pair-list rendering,
// since JSON objects only take string keys.
func toJSON(v *sbif.Value) interface{} {
	switch v.Kind() {
	case sbif.KindNull:
		return nil
	case sbif.KindBool:
		return v.AsBool()
	case sbif.KindInt8, sbif.KindInt16, sbif.KindInt32, sbif.KindInt64:
		return v.AsInt()
	case sbif.KindUint8, sbif.KindUint16, sbif.KindUint32, sbif.KindUint64:
		return v.AsUint()
	case sbif.KindFloat32, sbif.KindFloat64:
		return v.AsFloat()
	case sbif.KindChar:
		return string(v.AsChar())
	case sbif.KindString:
		return v.AsStr()
	case sbif.KindBytes:
		return base64.StdEncoding.EncodeToString(v.AsBytes())
	case sbif.KindSeq, sbif.KindTuple, sbif.KindTupleStruct:
		out := make([]interface{}, 0, len(v.Elems()))
		for _, el := range v.Elems() {
			out = append(out, toJSON(el))
		}
		return out
	case sbif.KindMap:
		entries := v.Entries()
		allStrings := true
		for _, en := range entries {
			if en.Key.Kind() != sbif.KindString {
				allStrings = false
				break
			}
		}
		if allStrings {
			out := make(map[string]interface{}, len(entries))
			for _, en := range entries {
				out[en.Key.AsStr()] = toJSON(en.Value)
			}
			return out
		}
		out := make([]interface{}, 0, len(entries))
		for _, en := range entries {
			out = append(out, []interface{}{toJSON(en.Key), toJSON(en.Value)})
		}
		return out
	case sbif.KindVariant:
		return map[string]interface{}{"variant": v.VariantIndex()}
	default:
		return nil
	}
}

// cmdFromJSON: JSON -> SBIF stream on stdout
func cmdFromJSON(r io.Reader, c sbif.Compression) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := fromJSON(dec)
	if err != nil {
		fatal("parse JSON: %v", err)
	}
	err = sbif.Encode(os.Stdout, c, func(e *sbif.Encoder) error {
		return sbif.EncodeValue(e, v)
	})
	if err != nil {
		fatal("encode: %v", err)
	}
}

// fromJSON builds a value tree from a JSON token stream. Objects keep
// their key order. Integral numbers become i64, everything else f64.
func fromJSON(dec *json.Decoder) (*sbif.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return fromJSONToken(dec, tok)
}

func fromJSONToken(dec *json.Decoder, tok json.Token) (*sbif.Value, error) {
	switch t := tok.(type) {
	case nil:
		return sbif.Null(), nil
	case bool:
		return sbif.Bool(t), nil
	case string:
		return sbif.Str(t), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return sbif.Int64(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %v", t, err)
		}
		return sbif.Float64(f), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []*sbif.Value
			for dec.More() {
				el, err := fromJSON(dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, el)
			}
			if _, err := dec.Token(); err != nil { // closing ]
				return nil, err
			}
			return sbif.Seq(elems...), nil
		case '{':
			var fields []sbif.MapEntry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := fromJSON(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, sbif.Field(key, val))
			}
			if _, err := dec.Token(); err != nil { // closing }
				return nil, err
			}
			return sbif.Struct(fields...), nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token: %v", tok)
}

// cmdHeader: print the stream header without decoding the body
func cmdHeader(r io.Reader) {
	d, err := sbif.NewDecoder(r)
	if err != nil {
		fatal("read header: %v", err)
	}
	c := d.Compression()
	if c.Kind == sbif.CompressionNone {
		fmt.Printf("SBIF version 1, compression: %s\n", c.Kind)
		return
	}
	fmt.Printf("SBIF version 1, compression: %s (level %d)\n", c.Kind, c.Level)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sbif: "+format+"\n", args...)
	os.Exit(1)
}
