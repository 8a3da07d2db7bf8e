package serialize

import (
	"fmt"
	"sync"

	"github.com/zoobzio/interchange"
	"github.com/zoobzio/interchange/bson"
	"github.com/zoobzio/interchange/csv"
	"github.com/zoobzio/interchange/json"
	"github.com/zoobzio/interchange/msgpack"
	"github.com/zoobzio/interchange/php"
	"github.com/zoobzio/interchange/properties"
	"github.com/zoobzio/interchange/querystring"
	"github.com/zoobzio/interchange/table"
	"github.com/zoobzio/interchange/toml"
	"github.com/zoobzio/interchange/xml"
	"github.com/zoobzio/interchange/yaml"
)

var (
	registry   = builtins()
	registryMu sync.RWMutex
)

// builtins returns a default-option codec for every supported format.
func builtins() map[interchange.Format]interchange.Codec {
	codecs := []interchange.Codec{
		json.New(),
		yaml.New(),
		xml.New(),
		toml.New(),
		csv.New(),
		table.New(),
		properties.New(),
		querystring.New(),
		php.NewArrayCodec(),
		php.NewSerializeCodec(php.SerializeOptions{}),
		msgpack.New(),
		bson.New(),
	}
	m := make(map[interchange.Format]interchange.Codec, len(codecs))
	for _, c := range codecs {
		m[c.Format()] = c
	}
	return m
}

// Use returns the registered codec for format.
func Use(format interchange.Format) (interchange.Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if c, ok := registry[format]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", interchange.ErrUnknownFormat, format)
}

// Register installs codec for its format, replacing any existing codec.
// Custom formats may be registered alongside the built-in ones.
func Register(codec interchange.Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[codec.Format()] = codec
}

// Reset restores the built-in codecs.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = builtins()
}
