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


package storage

import (
	"github.com/sellarium/catagraph/core"
)

// MarshalEntity serializes an Entity to bytes.
func MarshalEntity(entity *core.Entity) []byte {
	buf := make([]byte, core.EntityMUS.Size(*entity))
	core.EntityMUS.Marshal(*entity, buf)
	return buf
}

// UnmarshalEntity deserializes an Entity from bytes.
func UnmarshalEntity(data []byte) (*core.Entity, error) {
	entity, _, err := core.EntityMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// MarshalLink serializes a Link to bytes.
func MarshalLink(link *core.Link) []byte {
	buf := make([]byte, core.LinkMUS.Size(*link))
	core.LinkMUS.Marshal(*link, buf)
	return buf
}

// UnmarshalLink deserializes a Link from bytes.
func UnmarshalLink(data []byte) (*core.Link, error) {
	link, _, err := core.LinkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// MarshalProduct serializes a Product to bytes.
func MarshalProduct(product *core.Product) []byte {
	buf := make([]byte, core.ProductMUS.Size(*product))
	core.ProductMUS.Marshal(*product, buf)
	return buf
}

// UnmarshalProduct deserializes a Product from bytes.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	product, _, err := core.ProductMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
