package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		origHome string
		origXDG  string
		origCwd  string
		homeDir  string
		workDir  string
	)

	BeforeEach(func() {
		origHome = os.Getenv("HOME")
		origXDG = os.Getenv("XDG_DATA_HOME")
		var err error
		origCwd, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		homeDir, err = os.MkdirTemp("", "manifest-home-*")
		Expect(err).NotTo(HaveOccurred())
		homeDir, err = filepath.EvalSymlinks(homeDir)
		Expect(err).NotTo(HaveOccurred())

		workDir, err = os.MkdirTemp("", "manifest-cwd-*")
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Setenv("HOME", homeDir)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", "")).To(Succeed())
		Expect(os.Chdir(workDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Setenv("HOME", origHome)).To(Succeed())
		Expect(os.Setenv("XDG_DATA_HOME", origXDG)).To(Succeed())
		Expect(os.Chdir(origCwd)).To(Succeed())
		_ = os.RemoveAll(homeDir)
		_ = os.RemoveAll(workDir)
	})

	It("prefers the override", func() {
		path, err := ResolveSQLitePath("/tmp/custom.db", "/ignored")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("places the database inside the config dir", func() {
		dir := filepath.Join(homeDir, "cfg")
		path, err := ResolveSQLitePath("", dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "cache.db")))
	})

	It("resolves ~/.manifest/cache.db when present", func() {
		dbPath := filepath.Join(homeDir, ".manifest", "cache.db")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("resolves the XDG data dir when present", func() {
		xdg := filepath.Join(homeDir, "data")
		Expect(os.Setenv("XDG_DATA_HOME", xdg)).To(Succeed())

		dbPath := filepath.Join(xdg, "manifest", "cache.db")
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("creates ~/.manifest when nothing exists", func() {
		path, err := ResolveSQLitePath("", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(homeDir, ".manifest", "cache.db")))

		info, err := os.Stat(filepath.Join(homeDir, ".manifest"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})
})
