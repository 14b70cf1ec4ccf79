package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/manifest/pkg/logger"
)

func parseLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)
	Expect(err).NotTo(HaveOccurred())
	return parsed
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text records by default", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("normalized request", "backend", "cohere")

			Expect(buf.String()).To(ContainSubstring("normalized request"))
			Expect(buf.String()).To(ContainSubstring("backend=cohere"))
		})

		It("filters debug records unless debug is enabled", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet)).Debug("cache miss")
			logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("cache miss")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("cache miss"))
		})

		It("writes JSON records", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Info("stored result", "batch_size", 8)

			parsed := parseLine(&buf)
			Expect(parsed["msg"]).To(Equal("stored result"))
			Expect(parsed["batch_size"]).To(BeNumerically("==", 8))
		})

		It("writes pretty records with the prefix", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithPrefix("cache"))
			l.Warn("sqlite path unset")

			Expect(buf.String()).To(ContainSubstring("sqlite path unset"))
			Expect(buf.String()).To(ContainSubstring("cache"))
		})

		It("adds the prefix as a component attribute in JSON", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithPrefix("normalize"))
			l.Info("done")

			Expect(parseLine(&buf)["component"]).To(Equal("normalize"))
		})

		It("writes to every writer", func() {
			var buf1, buf2 bytes.Buffer
			l := logger.New(logger.WithWriters(&buf1, &buf2))
			l.Info("fan out")

			Expect(buf1.String()).To(ContainSubstring("fan out"))
			Expect(buf2.String()).To(ContainSubstring("fan out"))
		})

		It("nests grouped attributes", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.WithGroup("request").Info("built", "kind", "chat")

			group, ok := parseLine(&buf)["request"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(group["kind"]).To(Equal("chat"))
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			Expect(func() { l.With("k", "v").Info("msg") }).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		It("dispatches to all loggers", func() {
			var buf1, buf2 bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&buf1)),
				logger.New(logger.WithWriter(&buf2), logger.WithJSON(true)),
			)
			multi.Info("broadcast", "key", "val")

			Expect(buf1.String()).To(ContainSubstring("broadcast"))
			Expect(parseLine(&buf2)["key"]).To(Equal("val"))
		})

		It("respects each logger's level", func() {
			var debug, info bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&debug), logger.WithDebug(true)),
				logger.New(logger.WithWriter(&info)),
			)
			multi.Debug("detail")

			Expect(debug.String()).To(ContainSubstring("detail"))
			Expect(info.String()).To(BeEmpty())
		})

		It("carries attributes and groups to children", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))
			multi.With("component", "cli").WithGroup("cache").Info("hit", "driver", "sqlite")

			parsed := parseLine(&buf)
			Expect(parsed["component"]).To(Equal("cli"))
			group, ok := parsed["cache"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(group["driver"]).To(Equal("sqlite"))
		})
	})
})
