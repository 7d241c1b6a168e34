package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FlightDesk API",
        "description": "Flight school instructor roster and availability service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Instructors", "description": "Instructor directory"},
        {"name": "Roster", "description": "Roster rule lifecycle"},
        {"name": "Timeline", "description": "Day view grid and click mapping"}
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
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and receive an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/instructors": {
            "get": {
                "tags": ["Instructors"],
                "summary": "List instructors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Instructors"],
                "summary": "Register instructor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInstructorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructors/{id}": {
            "get": {
                "tags": ["Instructors"],
                "summary": "Get instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Instructors"],
                "summary": "Update instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateInstructorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Instructors"],
                "summary": "Deactivate instructor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/roster/rules": {
            "get": {
                "tags": ["Roster"],
                "summary": "List live roster rules",
                "parameters": [
                    {"name": "instructorId", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "integer", "description": "0 = Sunday"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Roster"],
                "summary": "Create roster rule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRosterRuleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlap or identical rule"}
                }
            }
        },
        "/roster/rules/preview": {
            "post": {
                "tags": ["Roster"],
                "summary": "Preview conflicts for a multi-day creation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewRosterRuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/rules/{id}": {
            "put": {
                "tags": ["Roster"],
                "summary": "Replace roster rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRosterRuleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlap or identical rule"}
                }
            },
            "delete": {
                "tags": ["Roster"],
                "summary": "Void roster rule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/roster/day": {
            "get": {
                "tags": ["Timeline"],
                "summary": "Rendered roster grid for one day",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string", "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/day/click": {
            "post": {
                "tags": ["Timeline"],
                "summary": "Map a timeline click to a draft time range",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimelineClickRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/roster/export": {
            "get": {
                "tags": ["Roster"],
                "summary": "Download an instructor's weekly roster sheet",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "instructorId", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "Instructor": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "ratings": {"type": "string"},
                "active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateInstructorRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "ratings": {"type": "string"}
            },
            "required": ["full_name", "email"]
        },
        "UpdateInstructorRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "ratings": {"type": "string"},
                "active": {"type": "boolean"}
            },
            "required": ["full_name", "email"]
        },
        "RosterRule": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "instructor_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "effective_from": {"type": "string"},
                "effective_until": {"type": "string"},
                "is_active": {"type": "boolean"},
                "voided_at": {"type": "string"},
                "notes": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "CreateRosterRuleRequest": {
            "type": "object",
            "properties": {
                "instructor_id": {"type": "string"},
                "day_of_week": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "effective_from": {"type": "string"},
                "effective_until": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["instructor_id", "day_of_week", "start_time", "end_time", "effective_from"]
        },
        "UpdateRosterRuleRequest": {
            "type": "object",
            "properties": {
                "instructor_id": {"type": "string"},
                "day_of_week": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "effective_from": {"type": "string"},
                "effective_until": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["instructor_id", "day_of_week", "start_time", "end_time", "effective_from"]
        },
        "PreviewRosterRuleRequest": {
            "type": "object",
            "properties": {
                "instructor_id": {"type": "string"},
                "days": {"type": "array", "items": {"type": "integer"}},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "effective_from": {"type": "string"},
                "effective_until": {"type": "string"},
                "exclude_rule_id": {"type": "string"}
            },
            "required": ["instructor_id", "days", "start_time", "end_time", "effective_from"]
        },
        "TimelineClickRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "click_x": {"type": "number"},
                "container_left": {"type": "number"},
                "container_width": {"type": "number"}
            },
            "required": ["date", "container_width"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
