// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package certificate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Shape schemas only pin what the verifier reads. Issuers add arbitrary
// extensions, so additional properties are always allowed.
var schemaSources = map[Version]string{
	V1_1: `{
  "type": "object",
  "required": ["certificate", "assertion", "recipient", "signature", "receipt"],
  "properties": {
    "certificate": {"type": "object", "required": ["issuer"]},
    "assertion": {"type": "object", "required": ["uid"], "properties": {"uid": {"type": "string"}}},
    "recipient": {"type": "object"},
    "signature": {"type": "string", "minLength": 1},
    "receipt": {"$ref": "#/definitions/chainpoint"}
  },
  "definitions": {
    "chainpoint": {
      "type": "object",
      "required": ["targetHash", "anchors"],
      "properties": {
        "targetHash": {"type": "string"},
        "merkleRoot": {"type": "string"},
        "proof": {"type": "array"},
        "anchors": {"type": "array", "minItems": 1}
      }
    }
  }
}`,
	V1_2: `{
  "type": "object",
  "required": ["document", "receipt"],
  "properties": {
    "document": {
      "type": "object",
      "required": ["certificate", "assertion", "recipient"],
      "properties": {
        "assertion": {"type": "object", "required": ["uid"]}
      }
    },
    "receipt": {
      "type": "object",
      "required": ["targetHash", "merkleRoot", "anchors"],
      "properties": {
        "proof": {"type": "array"},
        "anchors": {"type": "array", "minItems": 1}
      }
    }
  }
}`,
	V2_0: `{
  "type": "object",
  "required": ["id", "badge", "signature"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "expires": {"type": "string"},
    "badge": {
      "type": "object",
      "required": ["issuer"],
      "properties": {"issuer": {"type": "object", "required": ["id"]}}
    },
    "signature": {
      "type": "object",
      "required": ["targetHash", "merkleRoot", "anchors"],
      "properties": {
        "proof": {"type": "array"},
        "anchors": {"type": "array", "minItems": 1}
      }
    }
  }
}`,
	V3_0_alpha: v3Schema,
	V3_0:       v3Schema,
}

const v3Schema = `{
  "type": "object",
  "required": ["@context", "id", "issuer", "credentialSubject", "proof"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "issuer": {"type": ["string", "object"]},
    "expirationDate": {"type": "string"},
    "credentialSubject": {"type": "object"},
    "proof": {
      "type": "object",
      "required": ["type", "proofValue"],
      "properties": {
        "proofValue": {"type": "string", "pattern": "^z"},
        "verificationMethod": {"type": "string"}
      }
    }
  }
}`

var (
	schemasOnce sync.Once
	schemas     map[Version]*gojsonschema.Schema
	schemasErr  error
)

func compiledSchema(v Version) (*gojsonschema.Schema, error) {
	schemasOnce.Do(func() {
		schemas = make(map[Version]*gojsonschema.Schema, len(schemaSources))
		for version, src := range schemaSources {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				schemasErr = fmt.Errorf("certificate: compile %s schema: %w", version, err)
				return
			}
			schemas[version] = s
		}
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	s, ok := schemas[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, v)
	}
	return s, nil
}

// validateShape checks doc against the schema of version v.
func validateShape(v Version, doc map[string]any) error {
	s, err := compiledSchema(v)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w (v%s): %s", ErrSchemaViolation, v, strings.Join(msgs, "; "))
}
