// Package ratedata turns rate and surcharge documents into the immutable
// tables the rate engines price against.
package ratedata

import (
    "bytes"
    "embed"
    "encoding/json"
    "errors"
    "fmt"
    "io/fs"
    "os"

    "gopkg.in/yaml.v3"

    "parcelquote/internal/rate"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrIncomplete is returned when a dataset is missing a carrier or its rates.
var ErrIncomplete = errors.New("incomplete rate data")

// FileName is the document name of a carrier inside a data directory.
func FileName(c rate.Carrier) string {
    return string(c) + ".yaml"
}

// Default returns the dataset compiled into the binary.
func Default() (rate.Tables, error) {
    sub, err := fs.Sub(embedded, "data")
    if err != nil {
        return rate.Tables{}, err
    }
    return LoadFS(sub)
}

// LoadDir reads fedex.yaml, amazon.yaml and yamato.yaml from dir.
func LoadDir(dir string) (rate.Tables, error) {
    return LoadFS(os.DirFS(dir))
}

// LoadFS reads one document per carrier from the root of fsys.
func LoadFS(fsys fs.FS) (rate.Tables, error) {
    var t rate.Tables
    for _, c := range rate.Carriers {
        data, err := fs.ReadFile(fsys, FileName(c))
        if err != nil {
            return rate.Tables{}, fmt.Errorf("read %s tables: %w", c, err)
        }
        if err := DecodeYAML(c, data, &t); err != nil {
            return rate.Tables{}, err
        }
    }
    if err := Validate(t); err != nil {
        return rate.Tables{}, err
    }
    return t, nil
}

// DecodeYAML decodes one carrier document into its slot of t.
func DecodeYAML(c rate.Carrier, data []byte, t *rate.Tables) error {
    dec := yaml.NewDecoder(bytes.NewReader(data))
    dec.KnownFields(true)
    return decode(c, t, dec.Decode)
}

// DecodeJSON is DecodeYAML for documents stored as JSON.
func DecodeJSON(c rate.Carrier, data []byte, t *rate.Tables) error {
    dec := json.NewDecoder(bytes.NewReader(data))
    dec.DisallowUnknownFields()
    return decode(c, t, dec.Decode)
}

func decode(c rate.Carrier, t *rate.Tables, fn func(any) error) error {
    var err error
    switch c {
    case rate.FedExGround:
        v := new(rate.FedExTables)
        if err = fn(v); err == nil {
            t.FedEx = v
        }
    case rate.AmazonShipping:
        v := new(rate.AmazonTables)
        if err = fn(v); err == nil {
            t.Amazon = v
        }
    case rate.YamatoTaqbin:
        v := new(rate.YamatoTables)
        if err = fn(v); err == nil {
            t.Yamato = v
        }
    default:
        return rate.ErrUnknownCarrier
    }
    if err != nil {
        return fmt.Errorf("decode %s tables: %w", c, err)
    }
    return nil
}

// EncodeJSON returns the document of one carrier in JSON form.
func EncodeJSON(c rate.Carrier, t rate.Tables) ([]byte, error) {
    var v any
    switch c {
    case rate.FedExGround:
        v = t.FedEx
    case rate.AmazonShipping:
        v = t.Amazon
    case rate.YamatoTaqbin:
        v = t.Yamato
    default:
        return nil, rate.ErrUnknownCarrier
    }
    return json.Marshal(v)
}

// Validate checks that every carrier has tables with at least one rate row.
func Validate(t rate.Tables) error {
    switch {
    case t.FedEx == nil || len(t.FedEx.Rates) == 0:
        return fmt.Errorf("%w: %s", ErrIncomplete, rate.FedExGround)
    case t.Amazon == nil || len(t.Amazon.Rates) == 0:
        return fmt.Errorf("%w: %s", ErrIncomplete, rate.AmazonShipping)
    case t.Yamato == nil || len(t.Yamato.Rates) == 0:
        return fmt.Errorf("%w: %s", ErrIncomplete, rate.YamatoTaqbin)
    }
    return nil
}
