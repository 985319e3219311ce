package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "FaceGaze Attendance API",
        "description": "Lecture roster management and face-matched attendance check-ins",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "tags": [
        {"name": "Authentication", "description": "Lecturer sessions"},
        {"name": "Roster", "description": "Students enrolled in a lecture"},
        {"name": "Attendance", "description": "Check-in events and the daily feed"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "summary": "Readiness",
                "description": "Pings the database and, when configured, the session Redis",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is down"}}
            }
        },
        "/api/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Lecturer login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session opened", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Lecturer logout",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string"}
                ],
                "responses": {"200": {"description": "Logged out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/lecture/students": {
            "get": {
                "tags": ["Roster"],
                "summary": "List roster",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No session and no default lecture", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/lecture/student": {
            "post": {
                "tags": ["Roster"],
                "summary": "Enroll student",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Enrolled; body carries the updated roster", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student ID already exists in the lecture", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/lecture/student/{studentId}": {
            "delete": {
                "tags": ["Roster"],
                "summary": "Remove student and their attendance",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "studentId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Removed; body carries the updated roster", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not in this lecture", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record check-in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckInRequest"}}
                ],
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing student ID or lecture ID", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not enrolled in the lecture", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/attendance/{lectureId}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Today's check-ins, newest first",
                "parameters": [
                    {"name": "lectureId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/attendance/{lectureId}/export": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Download today's check-ins",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "lectureId", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "401": {"description": "Session required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Session belongs to another lecture", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
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
        "AddStudentRequest": {
            "type": "object",
            "required": ["studentId", "firstName", "lastName", "faceDescriptor"],
            "properties": {
                "studentId": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "faceDescriptor": {"type": "array", "items": {"type": "number"}},
                "profileImage": {"type": "string", "description": "Base64 data URL"}
            }
        },
        "CheckInRequest": {
            "type": "object",
            "required": ["studentId", "lectureId"],
            "properties": {
                "studentId": {"type": "string"},
                "lectureId": {"type": "string"},
                "imageDataUrl": {"type": "string"},
                "latitude": {"type": "number", "minimum": -90, "maximum": 90},
                "longitude": {"type": "number", "minimum": -180, "maximum": 180}
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
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"}
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
