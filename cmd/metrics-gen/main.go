// Command metrics-gen walks pkg/texture's Stats struct tags and emits a
// generated Prometheus collector, the same way the teacher's
// cmd/prom-metrics-gen walks TCPInfo's tags to emit pkg/exporter's gauges.
// Retargeted source struct (texture.Stats instead of linux.TCPInfo) and
// output package (pkg/metrics instead of pkg/exporter); the `tcpi` tag
// vocabulary (name / prom_type / prom_help) is kept as-is since it already
// fits a flat field-to-metric mapping.
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log"
	"os"
	"reflect"
	"strings"
	"text/template"
)

const (
	sourcePath   = "pkg/texture/pipeline.go"
	templatePath = "cmd/metrics-gen/template.tmpl"
	outputPath   = "pkg/metrics/generated_collector.go"
)

// Metric is one generated field: a Stats field paired with its Prometheus
// name, help text and metric type.
type Metric struct {
	Name      string
	FieldName string
	Help      string
	Type      string
}

func main() {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, sourcePath, nil, parser.ParseComments)
	if err != nil {
		log.Fatal(err)
	}

	var metrics []Metric
	ast.Inspect(node, func(n ast.Node) bool {
		s, ok := n.(*ast.StructType)
		if !ok {
			return true
		}
		for _, f := range s.Fields.List {
			if f.Tag == nil {
				continue
			}
			tag := reflect.StructTag(strings.Trim(f.Tag.Value, "`"))
			tcpiTag, ok := tag.Lookup("tcpi")
			if !ok {
				continue
			}
			metrics = append(metrics, parseMetric(f.Names[0].Name, tcpiTag))
		}
		return false
	})

	t, err := template.ParseFiles(templatePath)
	if err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ Metrics []Metric }{Metrics: metrics}); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %s\n", outputPath)
}

func parseMetric(fieldName, tagString string) Metric {
	metric := Metric{FieldName: fieldName, Type: "Counter"}
	for tagString != "" {
		i := strings.Index(tagString, "=")
		if i == -1 {
			log.Printf("malformed tag (missing =): %s [%s]", tagString, fieldName)
			break
		}
		key := tagString[:i]
		tagString = tagString[i+1:]

		var value string
		if strings.HasPrefix(tagString, "'") {
			tagString = tagString[1:]
			j := strings.Index(tagString, "'")
			if j == -1 {
				log.Printf("malformed tag (missing '): %s [%s]", tagString, fieldName)
				break
			}
			value = tagString[:j]
			tagString = tagString[j+1:]
			if strings.HasPrefix(tagString, ",") {
				tagString = tagString[1:]
			}
		} else if j := strings.Index(tagString, ","); j == -1 {
			value = tagString
			tagString = ""
		} else {
			value = tagString[:j]
			tagString = tagString[j+1:]
		}

		switch key {
		case "name":
			metric.Name = value
		case "prom_type":
			switch value {
			case "gauge":
				metric.Type = "Gauge"
			case "counter":
				metric.Type = "Counter"
			}
		case "prom_help":
			metric.Help = value
		}
	}
	return metric
}
