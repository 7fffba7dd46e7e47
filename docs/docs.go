// Package docs registra la definición OpenAPI del API para swag / http-swagger.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Ingresar con PIN",
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/access.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/access.loginResponse"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/auth/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sesión actual",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/cattle": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["cattle"],
                "summary": "Listar animales",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "enum": ["active", "sold", "deceased"], "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["cattle"],
                "summary": "Registrar animal",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/vaccinations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Listar vacunaciones",
                "parameters": [{"type": "string", "name": "animal_id", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Registrar vacunación",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/sanitary/alerts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sanitary"],
                "summary": "Alertas de vacunación",
                "parameters": [
                    {"type": "string", "enum": ["overdue", "urgent", "upcoming", "scheduled"], "name": "urgency", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}
            }
        },
        "/sanitary/alerts/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sanitary"],
                "summary": "Contadores por urgencia",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/alerts.Summary"}}}
            }
        },
        "/sanitary/upcoming": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sanitary"],
                "summary": "Próximas vacunaciones",
                "parameters": [{"type": "integer", "name": "n", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/poultry/movements": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["poultry"],
                "summary": "Listar movimientos",
                "parameters": [
                    {"type": "string", "enum": ["sale", "expense"], "name": "kind", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Resumen del panel",
                "parameters": [
                    {"type": "string", "enum": ["day", "month", "year"], "name": "period", "in": "query"},
                    {"type": "string", "enum": ["poultry", "cattle", "all"], "name": "sector", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "access.loginRequest": {
            "type": "object",
            "required": ["pin"],
            "properties": {"pin": {"type": "string", "example": "1234"}}
        },
        "access.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "alerts.Summary": {
            "type": "object",
            "properties": {
                "overdue": {"type": "integer"},
                "urgent": {"type": "integer"},
                "upcoming": {"type": "integer"},
                "scheduled": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Farm Dashboard API",
	Description:      "Aves, ganado y alertas sanitarias de la finca.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
