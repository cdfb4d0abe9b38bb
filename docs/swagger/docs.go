// Package swagger holds the OpenAPI document served at /swagger.
package swagger

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
        "/": {
            "get": {
                "description": "Reports that the API process is serving requests.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/server.Health"}
                    }
                }
            }
        },
        "/api/etl/status": {
            "get": {
                "description": "Returns the outcome of the most recent ingestion run in this process.",
                "produces": ["application/json"],
                "tags": ["etl"],
                "summary": "Pipeline Status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/etl.Report"}
                    }
                }
            }
        },
        "/api/station/{code}/history": {
            "get": {
                "description": "Returns one station's observations from the last 7 days, oldest first.",
                "produces": ["application/json"],
                "tags": ["stations"],
                "summary": "Station History",
                "parameters": [
                    {"type": "string", "description": "Station code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/aggregate.History"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/stations": {
            "get": {
                "description": "Returns every station with the prices observed in the last 24 hours and the price to display on the map.",
                "produces": ["application/json"],
                "tags": ["stations"],
                "summary": "List Stations",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/aggregate.StationView"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/api/stats": {
            "get": {
                "description": "Returns the five cheapest plausible observations of a fuel type with store freshness.",
                "produces": ["application/json"],
                "tags": ["stations"],
                "summary": "Cheapest Prices",
                "parameters": [
                    {"type": "string", "default": "E10", "description": "Fuel type", "name": "fuel_type", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/aggregate.Ranking"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "aggregate.FuelPrice": {
            "type": "object",
            "properties": {
                "fuel_type": {"type": "string"},
                "price": {"type": "number"},
                "updated": {"type": "string"}
            }
        },
        "aggregate.History": {
            "type": "object",
            "properties": {
                "history": {"type": "array", "items": {"$ref": "#/definitions/aggregate.HistoryPoint"}},
                "station_code": {"type": "string"}
            }
        },
        "aggregate.HistoryPoint": {
            "type": "object",
            "properties": {
                "captured_at": {"type": "string"},
                "fuel_type": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "aggregate.RankedPrice": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "captured_at": {"type": "string"},
                "fuel_type": {"type": "string"},
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "price": {"type": "number"},
                "station": {"type": "string"},
                "station_code": {"type": "string"}
            }
        },
        "aggregate.Ranking": {
            "type": "object",
            "properties": {
                "cheapest_5": {"type": "array", "items": {"$ref": "#/definitions/aggregate.RankedPrice"}},
                "data_as_of": {"type": "string"},
                "fuel_type": {"type": "string"},
                "title": {"type": "string"},
                "total_records": {"type": "integer"}
            }
        },
        "aggregate.StationView": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "brand": {"type": "string"},
                "code": {"type": "string"},
                "display_price": {"description": "number, or \"N/A\" when no current price exists"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "name": {"type": "string"},
                "prices": {"type": "array", "items": {"$ref": "#/definitions/aggregate.FuelPrice"}}
            }
        },
        "etl.Report": {
            "type": "object",
            "properties": {
                "archive_key": {"type": "string"},
                "error": {"type": "string"},
                "finished_at": {"type": "string"},
                "result": {"$ref": "#/definitions/reconcile.Result"},
                "source": {"type": "string"},
                "started_at": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "reconcile.Result": {
            "type": "object",
            "properties": {
                "prices_inserted": {"type": "integer"},
                "pruned": {"type": "integer"},
                "run_at": {"type": "string"},
                "stations_inserted": {"type": "integer"},
                "summary": {"$ref": "#/definitions/reconcile.Summary"}
            }
        },
        "reconcile.Summary": {
            "type": "object",
            "properties": {
                "accepted_prices": {"type": "integer"},
                "duplicate_stations": {"type": "integer"},
                "existing_stations": {"type": "integer"},
                "incoming_prices": {"type": "integer"},
                "incoming_stations": {"type": "integer"},
                "invalid_stations": {"type": "integer"},
                "malformed_records": {"type": "integer"},
                "new_stations": {"type": "integer"},
                "orphan_prices": {"type": "integer"},
                "skipped_stale": {"type": "integer"},
                "skipped_unparseable": {"type": "integer"}
            }
        },
        "server.Health": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"},
                "time": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fuel Dashboard API",
	Description:      "Read API over periodically ingested NSW fuel prices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
