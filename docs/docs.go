// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/brandae-leads/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/leads/contact": {
            "post": {
                "description": "Store a contact lead and notify every active webhook. Webhook failures never fail the request.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leads"],
                "summary": "Submit contact form",
                "parameters": [
                    {"description": "Contact form values", "name": "form", "in": "body", "required": true, "schema": {"$ref": "#/definitions/lead.FormData"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SubmitResponse"}},
                    "400": {"description": "Invalid JSON or field errors", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "500": {"description": "Submission failed", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/leads/demo": {
            "post": {
                "description": "Store a demo request and notify every active webhook.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["leads"],
                "summary": "Submit demo request",
                "parameters": [
                    {"description": "Demo form values", "name": "form", "in": "body", "required": true, "schema": {"$ref": "#/definitions/lead.FormData"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.SubmitResponse"}},
                    "400": {"description": "Invalid JSON or field errors", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/util.ErrorBody"}},
                    "500": {"description": "Submission failed", "schema": {"$ref": "#/definitions/util.ErrorBody"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "Stored contact and demo leads, newest first",
                "produces": ["application/json"],
                "tags": ["submissions"],
                "summary": "List submissions",
                "parameters": [
                    {"type": "string", "description": "contact_submission or demo_request", "name": "kind", "in": "query"},
                    {"type": "string", "description": "Case-insensitive text filter over name, email, business, message", "name": "q", "in": "query"},
                    {"type": "integer", "description": "Page size (default 50, max 200)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/lead.SubmissionDTO"}}},
                    "400": {"description": "Invalid filter", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Database error", "schema": {"type": "string"}}
                }
            }
        },
        "/webhooks": {
            "get": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "Get all registered webhook endpoints, active or not",
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "List webhook endpoints",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/webhook.EndpointDTO"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Database error", "schema": {"type": "string"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "Register a new endpoint. is_active defaults to true.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Create webhook endpoint",
                "parameters": [
                    {"description": "Endpoint configuration", "name": "endpoint", "in": "body", "required": true, "schema": {"$ref": "#/definitions/webhook.EndpointInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/webhook.EndpointDTO"}},
                    "400": {"description": "Invalid JSON or missing name/url", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Database error", "schema": {"type": "string"}}
                }
            }
        },
        "/webhooks/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Get webhook endpoint",
                "parameters": [{"type": "string", "description": "Endpoint ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webhook.EndpointDTO"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "description": "Change name, url or is_active. Omitted fields keep their value.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Update webhook endpoint",
                "parameters": [
                    {"type": "string", "description": "Endpoint ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "endpoint", "in": "body", "required": true, "schema": {"$ref": "#/definitions/webhook.EndpointInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/webhook.EndpointDTO"}},
                    "400": {"description": "Invalid JSON or values", "schema": {"type": "string"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}},
                    "500": {"description": "Database error", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}, {"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Delete webhook endpoint",
                "parameters": [{"type": "string", "description": "Endpoint ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Deletion confirmation", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}},
                    "500": {"description": "Database error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.SubmitResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string", "example": "2024-01-15T10:30:00Z"},
                "id": {"type": "string", "example": "0b8e7f3a-2f4c-4d7e-9c1a-5e6f7a8b9c0d"},
                "state": {"type": "string", "example": "settled"}
            }
        },
        "lead.FormData": {
            "type": "object",
            "properties": {
                "business": {"type": "string", "example": "Acme Co"},
                "email": {"type": "string", "example": "jane@example.com"},
                "message": {"type": "string", "example": "We'd like a walkthrough."},
                "name": {"type": "string", "example": "Jane Doe"},
                "phone": {"type": "string", "example": "+15551234567"}
            }
        },
        "lead.SubmissionDTO": {
            "type": "object",
            "properties": {
                "business": {"type": "string"},
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string", "example": "0b8e7f3a-2f4c-4d7e-9c1a-5e6f7a8b9c0d"},
                "kind": {"type": "string", "example": "contact_submission"},
                "message": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "util.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "submission failed"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "webhook.EndpointDTO": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string", "example": "2024-01-15T10:30:00Z"},
                "id": {"type": "string", "example": "6f1c2d4e-8a9b-4c3d-9e2f-1a2b3c4d5e6f"},
                "is_active": {"type": "boolean", "example": true},
                "name": {"type": "string", "example": "Zapier CRM"},
                "updated_at": {"type": "string", "example": "2024-01-15T10:30:00Z"},
                "url": {"type": "string", "example": "https://hooks.example.com/brandae"}
            }
        },
        "webhook.EndpointInput": {
            "type": "object",
            "properties": {
                "is_active": {"type": "boolean", "example": true},
                "name": {"type": "string", "example": "Zapier CRM"},
                "url": {"type": "string", "example": "https://hooks.example.com/brandae"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-Admin-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Brandae Leads API",
	Description:      "Contact and demo lead intake with webhook fan-out.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
