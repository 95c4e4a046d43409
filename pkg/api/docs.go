package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Get the health status of the API",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/parse": {
            "post": {
                "description": "Parse a local DBN file with the stream, direct or batch reader and return the statistics of the run",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["parse"],
                "summary": "Parse a file",
                "parameters": [
                    {
                        "description": "File and reader mode",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.ParseRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ParseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/inspect": {
            "get": {
                "description": "Return the metadata block and the first MBO records of a local DBN file",
                "produces": ["application/json"],
                "tags": ["inspect"],
                "summary": "Inspect a file",
                "parameters": [
                    {"type": "string", "description": "File path", "name": "path", "in": "query", "required": true},
                    {"type": "integer", "description": "Number of records (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.InspectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"},
                "kind": {"type": "string"},
                "offset": {"type": "integer"}
            }
        },
        "api.ParseRequest": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "mode": {"type": "string", "enum": ["stream", "direct", "batch"]},
                "batch_size": {"type": "integer"}
            }
        },
        "api.ParseResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "mode": {"type": "string"},
                "records": {"type": "integer"},
                "batches": {"type": "integer"},
                "bytes_processed": {"type": "integer"},
                "elapsed_seconds": {"type": "number"},
                "records_per_second": {"type": "number"},
                "throughput_gbps": {"type": "number"},
                "actions": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "api.InspectResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "size": {"type": "integer"},
                "metadata": {"type": "object"},
                "skipped": {"type": "integer"},
                "records": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:9200",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "dbnread inspection API",
	Description:      "Parse and inspect local DBN market-data files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
