// Package otelpack provides OpenTelemetry attributes for packing spans.
package otelpack

import (
	"go.opentelemetry.io/otel/attribute"
)

// Name of instrumentation.
const Name = "github.com/go-faster/lz4pack"

const (
	BlocksKey     = attribute.Key("lz4pack.blocks")
	StoredKey     = attribute.Key("lz4pack.blocks.stored")
	HeaderSizeKey = attribute.Key("lz4pack.header_size")
	SizeKey       = attribute.Key("lz4pack.size")
	WrittenKey    = attribute.Key("lz4pack.written")
	BlockSizeKey  = attribute.Key("lz4pack.block_size")
)

// Blocks attribute.
func Blocks(v int) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   BlocksKey,
		Value: attribute.IntValue(v),
	}
}

// Stored attribute.
func Stored(v int) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   StoredKey,
		Value: attribute.IntValue(v),
	}
}

// HeaderSize attribute.
func HeaderSize(v int) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   HeaderSizeKey,
		Value: attribute.IntValue(v),
	}
}

// Size attribute.
func Size(v int64) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   SizeKey,
		Value: attribute.Int64Value(v),
	}
}

// Written attribute.
func Written(v int64) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   WrittenKey,
		Value: attribute.Int64Value(v),
	}
}

// BlockSize attribute.
func BlockSize(v string) attribute.KeyValue {
	return attribute.KeyValue{
		Key:   BlockSizeKey,
		Value: attribute.StringValue(v),
	}
}
