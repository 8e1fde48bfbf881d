package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Rating Sync Bridge",
        "description": "Local bridge between the rating UI and the student API",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Roster", "description": "Student roster kept in sync with the student API"},
        {"name": "Notifications", "description": "Outcome notifications and journal"},
        {"name": "Settings", "description": "Bridge toggles"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "Roster sorted by last name",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentList"}}
                }
            },
            "post": {
                "tags": ["Roster"],
                "summary": "Add student",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AddStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Added", "schema": {"$ref": "#/definitions/Result"}},
                    "400": {"description": "Malformed payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Not added", "schema": {"$ref": "#/definitions/Result"}}
                }
            }
        },
        "/roster/reload": {
            "post": {
                "tags": ["Roster"],
                "summary": "Reload roster from the student API",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentList"}}
                }
            }
        },
        "/roster/{id}/rating": {
            "put": {
                "tags": ["Roster"],
                "summary": "Rate student",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RateStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rated", "schema": {"$ref": "#/definitions/Result"}},
                    "400": {"description": "Malformed id or payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Not rated", "schema": {"$ref": "#/definitions/Result"}}
                }
            }
        },
        "/roster/{id}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Remove student",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Removed", "schema": {"$ref": "#/definitions/Result"}},
                    "400": {"description": "Malformed id", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Not removed", "schema": {"$ref": "#/definitions/Result"}}
                }
            }
        },
        "/roster/export": {
            "get": {
                "tags": ["Roster"],
                "summary": "Export sorted roster",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settings/confirmations": {
            "get": {
                "tags": ["Settings"],
                "summary": "Success notification flag",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Toggle success notifications",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ConfirmationsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Visible notifications, newest first",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/NotificationList"}}
                }
            }
        },
        "/notifications/{category}": {
            "delete": {
                "tags": ["Notifications"],
                "summary": "Dismiss the notification of a category",
                "parameters": [
                    {"in": "path", "name": "category", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Dismissed"},
                    "404": {"description": "Nothing to dismiss", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/outcomes": {
            "get": {
                "tags": ["Notifications"],
                "summary": "Journaled outcomes",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Journal disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Student": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "firstname": {"type": "string"},
                "lastname": {"type": "string"},
                "schoolclass": {"type": "string"},
                "subject": {"type": "string"},
                "rating": {"type": "integer", "minimum": 0, "maximum": 5}
            }
        },
        "StudentList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Student"}}
            }
        },
        "AddStudentRequest": {
            "type": "object",
            "properties": {
                "firstname": {"type": "string"},
                "lastname": {"type": "string"},
                "schoolclass": {"type": "string"},
                "subject": {"type": "string"}
            }
        },
        "RateStudentRequest": {
            "type": "object",
            "required": ["rating"],
            "properties": {
                "rating": {"type": "integer"}
            }
        },
        "ConfirmationsRequest": {
            "type": "object",
            "required": ["enabled"],
            "properties": {
                "enabled": {"type": "boolean"}
            }
        },
        "Result": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"}
            }
        },
        "Notification": {
            "type": "object",
            "properties": {
                "severity": {"type": "string", "enum": ["success", "failure"]},
                "message": {"type": "string"},
                "category": {"type": "string"},
                "timeout": {"type": "integer", "description": "display time in milliseconds"},
                "operation": {"type": "string"},
                "request_id": {"type": "string"},
                "student_id": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "NotificationList": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/Notification"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
