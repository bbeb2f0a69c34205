// internal/dto/decode.go
package dto

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const timeSeriesSchema = `{
  "type": "object",
  "required": ["series"],
  "properties": {
    "series": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["identifier", "data"],
          "properties": {
            "identifier": {"type": "string"},
            "data": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["date"],
                "properties": {
                  "date": {"type": "string"},
                  "value": {"type": ["number", "null"]},
                  "agent": {"type": "string"},
                  "wptInfo": {"type": "object"}
                }
              }
            }
          }
        }
      }
    },
    "summaryLabels": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "label"]
      }
    },
    "measurandGroups": {"type": "object"},
    "numberOfTimeSeries": {"type": "integer", "minimum": 0}
  }
}`

const aggregationSchema = `{
  "type": "object",
  "properties": {
    "series": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "jobGroup": {"type": "string"},
          "page": {"type": "string"},
          "browser": {"type": "string"},
          "measurand": {"type": "string"},
          "measurandGroup": {"type": "string"},
          "unit": {"type": "string"},
          "value": {"type": ["number", "null"]},
          "valueComparative": {"type": ["number", "null"]},
          "aggregationValue": {"type": "string"}
        }
      }
    },
    "aggregationValue": {"type": "string"},
    "hasComparativeData": {"type": "boolean"},
    "filterRules": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["page", "jobGroup"]
        }
      }
    },
    "selectedFilter": {"type": "string"},
    "stackBars": {"type": "boolean"}
  }
}`

// validate checks raw JSON against a schema and joins every violation into
// a single error.
func validate(schema string, data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("payload failed validation: %s", strings.Join(details, "; "))
}

// DecodeTimeSeries validates and decodes a time series load.
func DecodeTimeSeries(data []byte) (EventResultData, error) {
	if err := validate(timeSeriesSchema, data); err != nil {
		return EventResultData{}, err
	}
	var out EventResultData
	if err := json.Unmarshal(data, &out); err != nil {
		return EventResultData{}, fmt.Errorf("decode time series: %w", err)
	}
	return out, nil
}

// DecodeAggregation validates and decodes one aggregation response.
func DecodeAggregation(data []byte) (AggregationResponse, error) {
	if err := validate(aggregationSchema, data); err != nil {
		return AggregationResponse{}, err
	}
	var out AggregationResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return AggregationResponse{}, fmt.Errorf("decode aggregation: %w", err)
	}
	return out, nil
}

// ReadTimeSeriesFile loads a time series JSON document from disk.
func ReadTimeSeriesFile(path string) (EventResultData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EventResultData{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeTimeSeries(data)
}

// ReadAggregationFile loads one aggregation response from disk.
func ReadAggregationFile(path string) (AggregationResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AggregationResponse{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeAggregation(data)
}
