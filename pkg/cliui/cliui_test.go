package cliui_test

import (
	"bytes"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/manifest/pkg/cliui"
)

var _ = Describe("cliui", func() {
	BeforeEach(func() {
		cliui.DisableColor()
	})

	Describe("Step", func() {
		It("prints a success mark when fn succeeds", func() {
			var buf bytes.Buffer
			err := cliui.Step(&buf, "Storing result", func() error { return nil })
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("✓ Storing result"))
		})

		It("returns the error and prints a fail mark", func() {
			var buf bytes.Buffer
			boom := errors.New("boom")
			err := cliui.Step(&buf, "Opening cache", func() error { return boom })
			Expect(err).To(MatchError(boom))
			Expect(buf.String()).To(ContainSubstring("✗ Opening cache"))
		})

		It("writes only the final line when not writing to a terminal", func() {
			var buf bytes.Buffer
			Expect(cliui.Step(&buf, "Storing result", func() error { return nil })).To(Succeed())
			Expect(buf.String()).NotTo(ContainSubstring("\r"))
			Expect(strings.Count(buf.String(), "\n")).To(Equal(1))
		})
	})

	Describe("IsTerminal", func() {
		It("is false for in-memory writers", func() {
			Expect(cliui.IsTerminal(&bytes.Buffer{})).To(BeFalse())
		})
	})

	Describe("FormatDuration", func() {
		It("formats sub-second durations in milliseconds", func() {
			Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
		})

		It("formats longer durations in seconds", func() {
			Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
		})
	})

	Describe("KeyValue", func() {
		It("pads the key to the given width", func() {
			Expect(cliui.KeyValue("n", 4, "1")).To(Equal("n     1"))
		})

		It("marks empty values as not set", func() {
			Expect(cliui.KeyValue("run_id", 6, "")).To(Equal("run_id  <not set>"))
		})
	})

	Describe("RenderMarkdown", func() {
		It("renders the content", func() {
			out, err := cliui.RenderMarkdown("# openai\n\n| internal | external |\n|---|---|\n| engine | model |\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("openai"))
			Expect(out).To(ContainSubstring("model"))
		})
	})
})
