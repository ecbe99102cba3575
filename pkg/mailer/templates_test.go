package mailer

import (
	"strings"
	"testing"
)

func TestPrepareWelcome(t *testing.T) {
	job := &EmailJob{To: "ada@example.com", Template: TemplateWelcome, Data: map[string]any{"Name": "<Ada>", "AppName": "Places"}}
	if err := Prepare(job); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if job.Subject != "Welcome to Places" {
		t.Fatalf("subject = %q", job.Subject)
	}
	if !strings.Contains(job.Text, "Hi <Ada>") {
		t.Fatalf("text = %q", job.Text)
	}
	if !strings.Contains(job.HTML, "Hi &lt;Ada&gt;") {
		t.Fatalf("html not escaped: %q", job.HTML)
	}
}

func TestPrepareRejects(t *testing.T) {
	if err := Prepare(&EmailJob{To: "a@b.c", Template: "nope"}); err == nil {
		t.Fatalf("expected unknown template error")
	}
	if err := Prepare(&EmailJob{To: "a@b.c"}); err == nil {
		t.Fatalf("expected empty job error")
	}
	if err := Prepare(&EmailJob{To: "a@b.c", Subject: "s", Text: "t"}); err != nil {
		t.Fatalf("raw job: %v", err)
	}
}
