package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Andrino Academy API",
        "description": "Instructor availability scheduling: weekly slot grid, save and confirm.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Authentication", "description": "Login and session profile"},
        {"name": "Availability", "description": "Instructor weekly availability grid"},
        {"name": "Tracks", "description": "Course tracks and their instructors"},
        {"name": "Settings", "description": "Academy schedule settings"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "security": [],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get the caller's availability for a track week",
                "parameters": [
                    {"name": "trackId", "in": "query", "type": "string", "required": true},
                    {"name": "weekStartDate", "in": "query", "type": "string", "format": "date", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AvailabilityEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the assigned instructor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Track not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Availability"],
                "summary": "Replace the caller's unconfirmed availability for a track week",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the assigned instructor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Track not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/availability/confirm": {
            "put": {
                "tags": ["Availability"],
                "summary": "Lock every unconfirmed slot of the caller's track week",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConfirmAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Not the assigned instructor", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Track not found or nothing to confirm", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Availability changed since last read", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/instructor/availability/{id}/booking": {
            "put": {
                "tags": ["Availability"],
                "summary": "Mark an availability slot booked or free",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Slot not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get the assigned instructor's availability for a track week",
                "parameters": [
                    {"name": "trackId", "in": "query", "type": "string", "required": true},
                    {"name": "weekStartDate", "in": "query", "type": "string", "format": "date", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AvailabilityEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/export": {
            "get": {
                "tags": ["Availability"],
                "summary": "Download a track week as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "trackId", "in": "query", "type": "string", "required": true},
                    {"name": "weekStartDate", "in": "query", "type": "string", "format": "date", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tracks": {
            "get": {
                "tags": ["Tracks"],
                "summary": "List tracks",
                "parameters": [
                    {"name": "mine", "in": "query", "type": "boolean"},
                    {"name": "includeInactive", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tracks/{id}": {
            "get": {
                "tags": ["Tracks"],
                "summary": "Get a track",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settings/schedule": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get schedule settings",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Update schedule settings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScheduleSettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "format": "email"},
                "password": {"type": "string"}
            }
        },
        "SlotInput": {
            "type": "object",
            "properties": {
                "dayOfWeek": {"type": "integer", "minimum": 0, "maximum": 6},
                "startHour": {"type": "integer", "minimum": 13, "maximum": 22},
                "endHour": {"type": "integer", "minimum": 14, "maximum": 23}
            }
        },
        "SaveAvailabilityRequest": {
            "type": "object",
            "required": ["trackId", "weekStartDate", "slots"],
            "properties": {
                "trackId": {"type": "string"},
                "weekStartDate": {"type": "string", "format": "date"},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/SlotInput"}}
            }
        },
        "ConfirmAvailabilityRequest": {
            "type": "object",
            "required": ["trackId", "weekStartDate"],
            "properties": {
                "trackId": {"type": "string"},
                "weekStartDate": {"type": "string", "format": "date"},
                "etag": {"type": "string"}
            }
        },
        "UpdateBookingRequest": {
            "type": "object",
            "required": ["isBooked"],
            "properties": {
                "isBooked": {"type": "boolean"}
            }
        },
        "UpdateScheduleSettingsRequest": {
            "type": "object",
            "required": ["weekResetDay"],
            "properties": {
                "weekResetDay": {"type": "integer", "minimum": 0, "maximum": 6}
            }
        },
        "AvailabilitySlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "instructorId": {"type": "string"},
                "trackId": {"type": "string"},
                "weekStartDate": {"type": "string", "format": "date-time"},
                "dayOfWeek": {"type": "integer"},
                "startHour": {"type": "integer"},
                "endHour": {"type": "integer"},
                "isBooked": {"type": "boolean"},
                "isConfirmed": {"type": "boolean"},
                "confirmedAt": {"type": "string", "format": "date-time"}
            }
        },
        "AvailabilityEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "availability": {"type": "array", "items": {"$ref": "#/definitions/AvailabilitySlot"}},
                        "weekStartDate": {"type": "string", "format": "date"},
                        "etag": {"type": "string"}
                    }
                },
                "meta": {"type": "object"}
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
