// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
// annotations.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Media Association tech desk"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Admin login",
                "operationId": "login",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Revoke the current session",
                "operationId": "logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current admin",
                "operationId": "getCurrentUser",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/auth/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Change the current admin's password",
                "operationId": "changePassword",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/members": {
            "post": {
                "tags": ["members"],
                "summary": "Submit a membership application",
                "operationId": "submitMember",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/MemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/MemberEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/renewals": {
            "post": {
                "tags": ["renewals"],
                "summary": "Submit a membership renewal",
                "operationId": "submitRenewal",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RenewalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/RenewalEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "List membership applications",
                "operationId": "listMembers",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MemberListEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/members/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Get a membership application",
                "operationId": "getMember",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MemberEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Delete a membership application",
                "operationId": "deleteMember",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/members/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["members"],
                "summary": "Review a membership application",
                "description": "Approving an application archives it into the member ledger",
                "operationId": "updateMemberStatus",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MemberEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/renewals": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["renewals"],
                "summary": "List renewals",
                "operationId": "listRenewals",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RenewalListEnvelope"}}
                }
            }
        },
        "/admin/renewals/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["renewals"],
                "summary": "Get a renewal",
                "operationId": "getRenewal",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RenewalEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["renewals"],
                "summary": "Update a renewal",
                "description": "Setting the status to Active archives the renewal into the member ledger",
                "operationId": "updateRenewal",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/RenewalUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RenewalEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["renewals"],
                "summary": "Delete a renewal",
                "operationId": "deleteRenewal",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/ledger": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "List ledger entries for a year",
                "operationId": "listLedgerByYear",
                "parameters": [{"type": "string", "name": "year", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LedgerYearEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Delete every ledger entry of a year",
                "operationId": "deleteLedgerByYear",
                "parameters": [{"type": "string", "name": "year", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LedgerDeleteEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/ledger/years": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Distinct ledger years with counts",
                "operationId": "listLedgerYears",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LedgerYearsEnvelope"}}
                }
            }
        },
        "/admin/ledger/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Get a ledger entry",
                "operationId": "getLedgerEntry",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LedgerEntryEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Delete a ledger entry",
                "operationId": "deleteLedgerEntry",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/ledger/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["ledger"],
                "summary": "Bulk import ledger rows from JSON",
                "operationId": "importLedgerJSON",
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ImportEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/ledger/import/csv": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["ledger"],
                "summary": "Bulk import ledger rows from a CSV file",
                "operationId": "importLedgerCSV",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ImportEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/archival-jobs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["archival"],
                "summary": "List archival jobs",
                "operationId": "listArchivalJobs",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ArchivalJobListEnvelope"}}
                }
            }
        },
        "/admin/archival-jobs/{id}/retry": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["archival"],
                "summary": "Reset a dead archival job",
                "operationId": "retryArchivalJob",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ArchivalJobEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/uploads": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "tags": ["uploads"],
                "summary": "Upload a file",
                "operationId": "uploadFile",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UploadEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/uploads/{key}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["uploads"],
                "summary": "Delete an uploaded file",
                "operationId": "deleteUpload",
                "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/{content}": {
            "get": {
                "tags": ["content"],
                "summary": "List published items",
                "description": "content is one of posts, events, resources or team",
                "operationId": "listPublishedContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ContentListEnvelope"}}
                }
            }
        },
        "/{content}/{id}": {
            "get": {
                "tags": ["content"],
                "summary": "Get a published item by id or slug",
                "operationId": "getPublishedContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ContentEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/{content}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "List items including drafts",
                "operationId": "listContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ContentListEnvelope"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "Create an item",
                "operationId": "createContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ContentEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/{content}/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "Get an item",
                "operationId": "getContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ContentEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "Replace an item",
                "operationId": "updateContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ContentEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["content"],
                "summary": "Delete an item",
                "operationId": "deleteContent",
                "parameters": [
                    {"type": "string", "enum": ["posts", "events", "resources", "team"], "name": "content", "in": "path", "required": true},
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/system/info": {
            "get": {
                "tags": ["system"],
                "summary": "Get system information",
                "operationId": "getSystemSystemInfo",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SystemInfoEnvelope"}}
                }
            }
        },
        "/system/ping": {
            "get": {
                "tags": ["system"],
                "summary": "Ping the API",
                "operationId": "pingSystem",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string", "example": "ERR_VALIDATION"},
                        "message": {"type": "string"},
                        "request_id": {"type": "string"},
                        "details": {
                            "type": "array",
                            "items": {
                                "type": "object",
                                "properties": {
                                    "field": {"type": "string"},
                                    "message": {"type": "string"}
                                }
                            }
                        }
                    }
                }
            }
        },
        "Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 255},
                "password": {"type": "string", "minLength": 8, "maxLength": 128}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "required": ["old_password", "new_password"],
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string", "minLength": 8, "maxLength": 128}
            }
        },
        "AdminInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "editor"]},
                "last_login_at": {"type": "string", "format": "date-time"}
            }
        },
        "LoginEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "token": {
                            "type": "object",
                            "properties": {
                                "access_token": {"type": "string"},
                                "expires_at": {"type": "string", "format": "date-time"},
                                "token_type": {"type": "string", "example": "Bearer"}
                            }
                        },
                        "user": {"$ref": "#/definitions/AdminInfo"}
                    }
                }
            }
        },
        "AdminEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {"user": {"$ref": "#/definitions/AdminInfo"}}
                }
            }
        },
        "MessageEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {"message": {"type": "string"}}
                }
            }
        },
        "StatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Pending Review", "Under Review", "Approved", "Rejected"]}
            }
        },
        "MemberRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "email", "terms_accepted"],
            "properties": {
                "first_name": {"type": "string", "maxLength": 100},
                "last_name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "maxLength": 255},
                "phone": {"type": "string", "maxLength": 50},
                "organization": {"type": "string", "maxLength": 200},
                "job_title": {"type": "string", "maxLength": 200},
                "membership_type": {"type": "string", "maxLength": 100},
                "motivation": {"type": "string", "maxLength": 5000},
                "referee_one_name": {"type": "string"},
                "referee_one_contact": {"type": "string"},
                "referee_two_name": {"type": "string"},
                "referee_two_contact": {"type": "string"},
                "terms_accepted": {"type": "boolean"},
                "application_date": {"type": "string", "format": "date-time"}
            }
        },
        "Member": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "organization": {"type": "string"},
                "job_title": {"type": "string"},
                "membership_type": {"type": "string"},
                "motivation": {"type": "string"},
                "terms_accepted": {"type": "boolean"},
                "application_date": {"type": "string", "format": "date-time"},
                "status": {"type": "string"},
                "reviewed_by": {"type": "string", "format": "uuid"},
                "reviewed_at": {"type": "string", "format": "date-time"},
                "archived": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "MemberEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/Member"}
            }
        },
        "MemberListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/Member"}},
                "meta": {"$ref": "#/definitions/Meta"}
            }
        },
        "RenewalRequest": {
            "type": "object",
            "required": ["membership_number", "first_name", "last_name", "email", "consent_data_processing"],
            "properties": {
                "membership_number": {"type": "string", "maxLength": 50},
                "first_name": {"type": "string", "maxLength": 100},
                "last_name": {"type": "string", "maxLength": 100},
                "email": {"type": "string", "maxLength": 255},
                "phone": {"type": "string"},
                "organization": {"type": "string"},
                "membership_type": {"type": "string"},
                "renewal_period": {"type": "string"},
                "renewal_date": {"type": "string", "format": "date-time"},
                "interests": {"type": "array", "items": {"type": "string"}},
                "consent_data_processing": {"type": "boolean"},
                "consent_communications": {"type": "boolean"},
                "payment_method": {"type": "string"},
                "amount": {"type": "string", "example": "50.00"}
            }
        },
        "RenewalUpdateRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "organization": {"type": "string"},
                "membership_type": {"type": "string"},
                "renewal_period": {"type": "string"},
                "payment_method": {"type": "string"},
                "interests": {"type": "array", "items": {"type": "string"}},
                "amount": {"type": "string"},
                "status": {"type": "string", "enum": ["Active", "Pending", "Expired", "Cancelled"]}
            }
        },
        "Renewal": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "membership_number": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "organization": {"type": "string"},
                "renewal_date": {"type": "string", "format": "date-time"},
                "interests": {"type": "array", "items": {"type": "string"}},
                "amount": {"type": "string"},
                "status": {"type": "string"},
                "archived": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "RenewalEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/Renewal"}
            }
        },
        "RenewalListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/Renewal"}},
                "meta": {"$ref": "#/definitions/Meta"}
            }
        },
        "LedgerEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "organisation": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "year": {"type": "string", "example": "2026"},
                "uploaded_at": {"type": "string", "format": "date-time"},
                "source": {"type": "string", "enum": ["member", "renewal", "import"]},
                "original_member_id": {"type": "string"},
                "original_renewal_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "LedgerEntryEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/LedgerEntry"}
            }
        },
        "LedgerYearEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "year": {"type": "string"},
                        "count": {"type": "integer"},
                        "members": {"type": "array", "items": {"$ref": "#/definitions/LedgerEntry"}}
                    }
                }
            }
        },
        "LedgerDeleteEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "deleted_count": {"type": "integer"},
                        "year": {"type": "string"}
                    }
                }
            }
        },
        "LedgerYearsEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "year": {"type": "string"},
                            "count": {"type": "integer"}
                        }
                    }
                }
            }
        },
        "ImportRequest": {
            "type": "object",
            "required": ["members"],
            "properties": {
                "members": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "organisation": {"type": "string"},
                            "email": {"type": "string"},
                            "phone": {"type": "string"},
                            "year": {"type": "string", "description": "accepts a string or a number"}
                        }
                    }
                }
            }
        },
        "ImportEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "count": {"type": "integer"},
                        "inserted_ids": {"type": "array", "items": {"type": "string", "format": "uuid"}},
                        "skipped": {
                            "type": "array",
                            "items": {
                                "type": "object",
                                "properties": {
                                    "row": {"type": "integer"},
                                    "reason": {"type": "string"}
                                }
                            }
                        }
                    }
                }
            }
        },
        "ArchivalJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "source_kind": {"type": "string", "enum": ["member", "renewal"]},
                "source_id": {"type": "string", "format": "uuid"},
                "status": {"type": "string", "enum": ["pending", "done", "dead"]},
                "retry_count": {"type": "integer"},
                "max_retries": {"type": "integer"},
                "last_error": {"type": "string"},
                "next_retry_at": {"type": "string", "format": "date-time"},
                "processed_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ArchivalJobEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/ArchivalJob"}
            }
        },
        "ArchivalJobListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/ArchivalJob"}},
                "meta": {"$ref": "#/definitions/Meta"}
            }
        },
        "UploadEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "key": {"type": "string"},
                        "url": {"type": "string"},
                        "size": {"type": "integer"},
                        "content_type": {"type": "string"}
                    }
                }
            }
        },
        "ContentEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"}
            }
        },
        "ContentListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"type": "object"}},
                "meta": {"$ref": "#/definitions/Meta"}
            }
        },
        "SystemInfoEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {
                    "type": "object",
                    "properties": {
                        "name": {"type": "string"},
                        "version": {"type": "string"},
                        "go_version": {"type": "string"},
                        "uptime": {"type": "string"}
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\". The ma_session cookie is accepted too.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Media Association API",
	Description:      "Membership intake, the member ledger and public site content for the media association",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
