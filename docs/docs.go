// Package docs provides the Swagger specification served at /swagger.
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
        "/auth/callback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Authenticate the current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Get the current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/incomes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "List incomes",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "Create an income",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/incomes/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["incomes"],
                "summary": "Delete an income",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/expenses": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "List expenses",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Create an expense",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/expenses/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["expenses"],
                "summary": "Delete an expense",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Create a category",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/categories/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Delete a category",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/installments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["installments"],
                "summary": "List installments with payment status",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["installments"],
                "summary": "Create an installment purchase",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "500": {"description": "Partial Batch Failure"}}
            }
        },
        "/installments/upcoming": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["installments"],
                "summary": "List upcoming installment payments",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/months": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["months"],
                "summary": "List available months",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/months/{month}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["months"],
                "summary": "Get a month's records",
                "parameters": [{"type": "string", "name": "month", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/months/{month}/totals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["months"],
                "summary": "Get monthly totals",
                "parameters": [{"type": "string", "name": "month", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/months/{month}/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["months"],
                "summary": "Get category breakdown",
                "parameters": [{"type": "string", "name": "month", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["dashboard"],
                "summary": "Get the dashboard",
                "parameters": [{"type": "string", "name": "month", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/backup/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["backup"],
                "summary": "Export a backup",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/backup/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["backup"],
                "summary": "Import a backup",
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}
            }
        },
        "/backup/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["backup"],
                "summary": "Reset all data",
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Centavo API",
	Description:      "Personal finance tracking API: incomes, expenses, categories, and installment purchases grouped by month.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
