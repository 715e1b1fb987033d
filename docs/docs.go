// Package docs registers the OpenAPI description served under /swagger.
package docs

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
        "/tournaments/standings/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Текущая турнирная сетка",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Standings"}},
                    "404": {"description": "Турнир не найден"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Сохранить результаты участников",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "id", "in": "path", "required": true},
                    {"description": "Участники", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateParticipantsInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Standings"}},
                    "422": {"description": "Ошибка валидации"}
                }
            }
        },
        "/tournaments/standings/{id}/first-round": {
            "get": {
                "produces": ["application/json"],
                "tags": ["standings"],
                "summary": "Посев первого раунда",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Standings"}}}
            }
        },
        "/editor/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["editor"],
                "summary": "Открыть редактор сетки",
                "responses": {"201": {"description": "session и view"}}
            }
        },
        "/editor/sessions/{sessionID}/first-round": {
            "post": {
                "produces": ["application/json"],
                "tags": ["editor"],
                "summary": "Сгенерировать первый раунд в редакторе",
                "parameters": [{"type": "string", "description": "Session ID", "name": "sessionID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Первый раунд уже сгенерирован"}}
            }
        },
        "/editor/sessions/{sessionID}/candidates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["editor"],
                "summary": "Кандидаты для слота",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionID", "in": "path", "required": true},
                    {"type": "string", "description": "Адрес слота", "name": "path", "in": "query"},
                    {"type": "string", "description": "Часть имени", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "candidates"}}
            }
        },
        "/editor/sessions/{sessionID}/slots": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["editor"],
                "summary": "Поставить участника в слот",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "sessionID", "in": "path", "required": true},
                    {"type": "string", "description": "Адрес слота", "name": "path", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Участник не может занять слот"}}
            }
        }
    },
    "definitions": {
        "models.Participant": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "horseId": {"type": "integer"},
                "name": {"type": "string"},
                "dateOfBirth": {"type": "string", "example": "2018-04-02"},
                "entryNumber": {"type": "integer"},
                "roundReached": {"type": "integer"}
            }
        },
        "models.StandingsTreeNode": {
            "type": "object",
            "properties": {
                "thisParticipant": {"$ref": "#/definitions/models.Participant"},
                "branches": {"type": "array", "items": {"$ref": "#/definitions/models.StandingsTreeNode"}}
            }
        },
        "models.Standings": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "participants": {"type": "array", "items": {"$ref": "#/definitions/models.Participant"}},
                "tree": {"$ref": "#/definitions/models.StandingsTreeNode"}
            }
        },
        "models.UpdateParticipantsInput": {
            "type": "object",
            "properties": {
                "participants": {"type": "array", "items": {"$ref": "#/definitions/models.Participant"}}
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
	Title:            "Horse Tournament Standings API",
	Description:      "Single-elimination standings of horse tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
