package output

import (
	"bytes"
	"testing"
)

// Benchmark rendering performance

func BenchmarkTextRenderer_RenderPlan(b *testing.B) {
	report := sampleReport()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &TextRenderer{w: &buf}
		r.RenderPlan(report)
	}
}

func BenchmarkPlainRenderer_RenderPlan(b *testing.B) {
	report := sampleReport()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &PlainRenderer{w: &buf}
		r.RenderPlan(report)
	}
}

func BenchmarkJSONRenderer_RenderPlan(b *testing.B) {
	report := sampleReport()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &JSONRenderer{w: &buf}
		r.RenderPlan(report)
	}
}

func BenchmarkMarkdownRenderer_RenderPlan(b *testing.B) {
	report := sampleReport()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		r := &MarkdownRenderer{w: &buf}
		r.RenderPlan(report)
	}
}
