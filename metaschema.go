package genopts

// MetaSchema returns the draft-07 JSON Schema describing the schema.json
// format itself, for editor completion and linting of generator documents.
func MetaSchema() []byte {
	return []byte(metaSchemaJSON)
}

const metaSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://github.com/reoring/genopts/meta/schema.json",
  "title": "Generator options schema",
  "type": "object",
  "properties": {
    "$schema": { "type": "string" },
    "$id": { "type": "string" },
    "title": { "type": "string" },
    "description": { "type": "string" },
    "type": { "const": "object" },
    "properties": {
      "type": "object",
      "additionalProperties": { "$ref": "#/definitions/property" }
    },
    "required": {
      "type": "array",
      "items": { "type": "string" }
    },
    "definitions": {
      "type": "object",
      "additionalProperties": { "$ref": "#/definitions/property" }
    },
    "additionalProperties": { "type": "boolean" }
  },
  "definitions": {
    "property": {
      "type": "object",
      "properties": {
        "type": { "enum": ["string", "number", "integer", "boolean", "object", "array"] },
        "description": { "type": "string" },
        "default": true,
        "$default": {
          "type": "object",
          "properties": {
            "$source": { "type": "string" },
            "index": { "type": "integer", "minimum": 0 }
          },
          "required": ["$source"],
          "additionalProperties": false
        },
        "enum": { "type": "array" },
        "alias": { "type": "string" },
        "aliases": {
          "type": "array",
          "items": { "type": "string" }
        },
        "format": { "type": "string" },
        "visible": { "type": "boolean" },
        "$ref": { "type": "string" },
        "x-prompt": {
          "oneOf": [
            { "type": "string" },
            {
              "type": "object",
              "properties": {
                "message": { "type": "string" },
                "type": { "enum": ["input", "confirmation", "list"] },
                "items": {
                  "type": "array",
                  "items": {
                    "oneOf": [
                      { "type": "string" },
                      { "type": "number" },
                      { "type": "boolean" },
                      {
                        "type": "object",
                        "properties": {
                          "value": true,
                          "label": { "type": "string" }
                        },
                        "required": ["value"]
                      }
                    ]
                  }
                }
              },
              "required": ["message"]
            }
          ]
        },
        "x-deprecated": {
          "oneOf": [
            { "type": "boolean" },
            { "type": "string" }
          ]
        },
        "multipleOf": { "type": "number", "exclusiveMinimum": 0 },
        "minimum": { "type": "number" },
        "exclusiveMinimum": { "type": "number" },
        "maximum": { "type": "number" },
        "exclusiveMaximum": { "type": "number" },
        "pattern": { "type": "string", "format": "regex" },
        "minLength": { "type": "integer", "minimum": 0 },
        "maxLength": { "type": "integer", "minimum": 0 },
        "items": { "$ref": "#/definitions/property" },
        "minItems": { "type": "integer", "minimum": 0 },
        "maxItems": { "type": "integer", "minimum": 0 },
        "oneOf": {
          "type": "array",
          "items": { "$ref": "#/definitions/property" }
        },
        "anyOf": {
          "type": "array",
          "items": { "$ref": "#/definitions/property" }
        },
        "allOf": {
          "type": "array",
          "items": { "$ref": "#/definitions/property" }
        },
        "properties": {
          "type": "object",
          "additionalProperties": { "$ref": "#/definitions/property" }
        },
        "required": {
          "type": "array",
          "items": { "type": "string" }
        },
        "additionalProperties": { "type": "boolean" }
      }
    }
  }
}
`
