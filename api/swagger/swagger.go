package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Childcare Cover API",
        "description": "Substitute matching and conflict-safe assignment for staff absences",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Coverage", "description": "Substitute matching and assignment"}
    ],
    "paths": {
        "/absences/{id}/subs": {
            "get": {
                "tags": ["Coverage"],
                "summary": "Find eligible substitutes for an absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "includeFlexible", "in": "query", "type": "boolean"},
                    {"name": "includePast", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Absence or coverage request not found"}
                }
            }
        },
        "/absences/{id}/coverage-sheet": {
            "get": {
                "tags": ["Coverage"],
                "summary": "Download the coverage sheet for an absence",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "Rendered coverage sheet"}
                }
            }
        },
        "/coverage-requests/{id}/assignments": {
            "post": {
                "tags": ["Coverage"],
                "summary": "Assign a substitute to coverage request shifts",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignShiftsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No valid shifts found"},
                    "409": {"description": "Substitute already assigned at this date and time"}
                }
            }
        }
    },
    "definitions": {
        "SubMatch": {
            "type": "object",
            "properties": {
                "staff_id": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "is_flexible": {"type": "boolean"},
                "coverage_percent": {"type": "integer"},
                "shifts_covered": {"type": "integer"},
                "total_shifts": {"type": "integer"},
                "can_cover": {"type": "array", "items": {"$ref": "#/definitions/ShiftVerdict"}},
                "cannot_cover": {"type": "array", "items": {"$ref": "#/definitions/ShiftVerdict"}},
                "assigned_shifts": {"type": "array", "items": {"$ref": "#/definitions/ShiftVerdict"}},
                "qualification_matches": {"type": "integer"},
                "qualification_total": {"type": "integer"}
            }
        },
        "ShiftVerdict": {
            "type": "object",
            "properties": {
                "shift_id": {"type": "string"},
                "date": {"type": "string"},
                "day_of_week_id": {"type": "string"},
                "time_slot_id": {"type": "string"},
                "class_group_id": {"type": "string"},
                "classroom_id": {"type": "string"},
                "reason": {"type": "string", "enum": ["unavailable", "scheduled_to_teach", "has_time_off", "not_qualified"]}
            }
        },
        "Combination": {
            "type": "object",
            "properties": {
                "members": {"type": "array", "items": {"$ref": "#/definitions/CombinationMember"}},
                "shifts_covered": {"type": "integer"},
                "total_shifts": {"type": "integer"},
                "coverage_percent": {"type": "integer"}
            }
        },
        "CombinationMember": {
            "type": "object",
            "properties": {
                "staff_id": {"type": "string"},
                "full_name": {"type": "string"},
                "coverage_percent": {"type": "integer"},
                "shift_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AssignShiftsRequest": {
            "type": "object",
            "properties": {
                "sub_id": {"type": "string"},
                "shift_ids": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["sub_id", "shift_ids"]
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
