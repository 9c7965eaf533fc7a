// Package docs holds the swagger document served at /swagger/.
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
        "/api/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List tasks",
                "description": "Returns every task, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a new task",
                "description": "Adds a task to the database",
                "parameters": [
                    {"description": "Task to create", "name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateTaskInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            }
        },
        "/api/tasks/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Task statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            }
        },
        "/api/tasks/completed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List completed tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            }
        },
        "/api/tasks/pending": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List pending tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            }
        },
        "/api/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [{"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a task",
                "description": "Applies a partial update; absent fields are left unchanged",
                "parameters": [
                    {"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateTaskInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [{"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            }
        },
        "/api/tasks/{id}/toggle": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Toggle task completion",
                "parameters": [{"type": "string", "description": "Task ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.Envelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "description": "Pings the task store",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "models.CreateTaskInput": {
            "type": "object",
            "required": ["color", "title"],
            "properties": {
                "color": {"type": "string", "enum": ["red", "blue", "green", "yellow", "purple", "orange", "pink", "gray"]},
                "description": {"type": "string", "maxLength": 1000},
                "dueDate": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "title": {"type": "string", "maxLength": 255}
            }
        },
        "models.UpdateTaskInput": {
            "type": "object",
            "properties": {
                "color": {"type": "string", "enum": ["red", "blue", "green", "yellow", "purple", "orange", "pink", "gray"]},
                "completed": {"type": "boolean"},
                "description": {"type": "string", "maxLength": 1000},
                "dueDate": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "title": {"type": "string", "maxLength": 255, "minLength": 1}
            }
        },
        "models.Task": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "completed": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "dueDate": {"type": "string"},
                "id": {"type": "string"},
                "priority": {"type": "string"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.TaskStats": {
            "type": "object",
            "properties": {
                "completed": {"type": "integer"},
                "pending": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "utils.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "details": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Todo Task API",
	Description:      "CRUD API for todo tasks with completion toggling and statistics",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
