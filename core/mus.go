// Copyright 2025 Sellarium Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"sort"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted document types. Field order
// is part of the stored format; append new fields at the end only.
var (
	EntityMUS  = entityMUS{}
	LinkMUS    = linkMUS{}
	ProductMUS = productMUS{}
)

type entityMUS struct{}

func (entityMUS) Marshal(v Entity, bs []byte) (n int) {
	n = ord.String.Marshal(v.Merchant, bs)
	n += ord.String.Marshal(v.Slug, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	n += marshalStringSlice(v.Synonyms, bs[n:])
	n += ord.String.Marshal(v.Fact, bs[n:])
	n += ord.String.Marshal(v.Cautions, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += varint.Float64.Marshal(v.Confidence, bs[n:])
	n += marshalStringSlice(v.Examples, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (entityMUS) Unmarshal(bs []byte) (v Entity, n int, err error) {
	var n1 int
	if v.Merchant, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Slug, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Type, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Synonyms, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Fact, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Cautions, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	v.Status = EntityStatus(status)
	n += n1
	if v.Confidence, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Examples, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (entityMUS) Size(v Entity) (size int) {
	size = ord.String.Size(v.Merchant)
	size += ord.String.Size(v.Slug)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Type)
	size += sizeStringSlice(v.Synonyms)
	size += ord.String.Size(v.Fact)
	size += ord.String.Size(v.Cautions)
	size += ord.String.Size(string(v.Status))
	size += varint.Float64.Size(v.Confidence)
	size += sizeStringSlice(v.Examples)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

type linkMUS struct{}

func (linkMUS) Marshal(v Link, bs []byte) (n int) {
	n = ord.String.Marshal(v.Merchant, bs)
	n += ord.String.Marshal(v.ProductID, bs[n:])
	n += marshalStringSlice(v.Slugs, bs[n:])
	n += marshalEvidence(v.Evidence, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (linkMUS) Unmarshal(bs []byte) (v Link, n int, err error) {
	var n1 int
	if v.Merchant, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.ProductID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Slugs, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Evidence, n1, err = unmarshalEvidence(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (linkMUS) Size(v Link) (size int) {
	size = ord.String.Size(v.Merchant)
	size += ord.String.Size(v.ProductID)
	size += sizeStringSlice(v.Slugs)
	size += sizeEvidence(v.Evidence)
	size += sizeTime(v.UpdatedAt)
	return size
}

type productMUS struct{}

func (productMUS) Marshal(v Product, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += marshalStringSlice(v.Tags, bs[n:])
	n += marshalStringMap(v.Specs, bs[n:])
	return n
}

func (productMUS) Unmarshal(bs []byte) (v Product, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Tags, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Specs, n1, err = unmarshalStringMap(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (productMUS) Size(v Product) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += sizeStringSlice(v.Tags)
	size += sizeStringMap(v.Specs)
	return size
}

// Collection helpers. Maps are marshaled in sorted key order so identical
// documents always produce identical bytes (ContentHash depends on this).

func marshalStringSlice(sl []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(sl), bs)
	for _, s := range sl {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (sl []string, n int, err error) {
	var count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	var n1 int
	for i := 0; i < count; i++ {
		var s string
		if s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		sl = append(sl, s)
	}
	return
}

func sizeStringSlice(sl []string) (size int) {
	size = varint.Int.Size(len(sl))
	for _, s := range sl {
		size += ord.String.Size(s)
	}
	return size
}

func marshalStringMap(m map[string]string, bs []byte) (n int) {
	keys := sortedKeys(m)
	n = varint.Int.Marshal(len(keys), bs)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(m[k], bs[n:])
	}
	return n
}

func unmarshalStringMap(bs []byte) (m map[string]string, n int, err error) {
	var count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if count == 0 {
		return
	}
	m = make(map[string]string, count)
	var n1 int
	for i := 0; i < count; i++ {
		var k, v string
		if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		if v, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		m[k] = v
	}
	return
}

func sizeStringMap(m map[string]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += ord.String.Size(v)
	}
	return size
}

func marshalEvidence(m map[string][]string, bs []byte) (n int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n = varint.Int.Marshal(len(keys), bs)
	for _, k := range keys {
		n += ord.String.Marshal(k, bs[n:])
		n += marshalStringSlice(m[k], bs[n:])
	}
	return n
}

func unmarshalEvidence(bs []byte) (m map[string][]string, n int, err error) {
	var count int
	if count, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	if count == 0 {
		return
	}
	m = make(map[string][]string, count)
	var n1 int
	for i := 0; i < count; i++ {
		var k string
		var v []string
		if k, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		if v, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
			return
		}
		n += n1
		m[k] = v
	}
	return
}

func sizeEvidence(m map[string][]string) (size int) {
	size = varint.Int.Size(len(m))
	for k, v := range m {
		size += ord.String.Size(k)
		size += sizeStringSlice(v)
	}
	return size
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}
