package ingest

import (
	"github.com/verte-zerg/cutline/internal/model"
)

// DemoName is the project name used for the demo document.
const DemoName = "AI Ethics Podcast - Episode 1"

// Demo returns a small two-speaker interview for trying the editor without
// a transcription backend.
func Demo() ([]model.Segment, []*model.Speaker) {
	host := &model.Speaker{ID: "host", Name: "Alex Chen", Color: "#3b82f6"}
	guest := &model.Speaker{ID: "guest", Name: "Dr. Sarah Martinez", Color: "#10b981"}
	seg := func(id string, start, end float64, sp *model.Speaker, conf float64, text string) model.Segment {
		return model.Segment{ID: id, Start: start, End: end, Text: text, Speaker: sp, Confidence: conf, IsEditable: true}
	}
	return []model.Segment{
		seg("1", 0, 5.2, host, 0.98, "Welcome to our podcast. Today we're discussing the future of artificial intelligence and its impact on society."),
		seg("2", 5.2, 12.8, guest, 0.94, "That's a fascinating topic. I think AI will transform how we work, learn, and even think about creativity."),
		seg("3", 12.8, 18.5, host, 0.96, "Absolutely. But we also need to consider the ethical implications and ensure that AI development is responsible."),
		seg("4", 18.5, 26.2, guest, 0.92, "I completely agree. We need frameworks and policies that guide AI development while still encouraging innovation."),
		seg("5", 26.2, 34.8, host, 0.97, "Exactly. And it's not just about the technology itself, but how it integrates into our social and economic systems."),
		seg("6", 34.8, 45.0, guest, 0.95, "That's a great point. We should also consider the global implications and ensure equitable access to AI benefits."),
	}, []*model.Speaker{host, guest}
}

