package litedram

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/microwatt/litedram-gen/catalog"
	"github.com/microwatt/litedram-gen/fusesoc"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

const artyYml = `
memtype: DDR3
sdram_module: MT41K128M16
sdram_module_nb: 2
sdram_phy: A7DDRPHY
input_clk_freq: 100e6
sys_clk_freq: 100e6
iodelay_clk_freq: 200e6
cmd_buffer_depth: 16
`

type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitStatus) ExitCode() int { return int(e) }

func write(path, content string) {
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
}

func read(path string) string {
	buf, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return string(buf)
}

// fakeGenerator writes what litedram_gen would leave in build/gateware
func fakeGenerator(verilog string, withInit bool) func(string, []string) error {
	return func(dir string, argv []string) error {
		write(filepath.Join(dir, CoreVerilog), verilog)
		if withInit {
			write(filepath.Join(dir, CoreInit), "00000000\n")
		}
		return nil
	}
}

var _ = Describe("Run", func() {
	var (
		mockCtrl  *gomock.Controller
		runner    *MockRunner
		reg       *MockRegistrar
		scriptDir string
		workDir   string
		socDir    string
		args      Args
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		runner = NewMockRunner(mockCtrl)
		reg = NewMockRegistrar(mockCtrl)

		scriptDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		socDir = GinkgoT().TempDir()
		write(filepath.Join(scriptDir, "arty.yml"), artyYml)
		write(filepath.Join(scriptDir, "litedram-wrapper.vhdl"), "entity litedram_wrapper is\n")
		write(filepath.Join(scriptDir, "sdram_init", "Makefile"), "all:\n")

		args = Args{
			Board:     "arty",
			ScriptDir: scriptDir,
			WorkDir:   workDir,
			SoCDir:    socDir,
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	cfgPath := func() string {
		return filepath.Join(scriptDir, "arty.yml")
	}

	Context("standalone", func() {
		It("should run the generator and register its output", func() {
			runner.EXPECT().
				Run(workDir, []string{"litedram_gen", cfgPath()}).
				DoAndReturn(fakeGenerator("module litedram_core;\n", true))
			gomock.InOrder(
				reg.EXPECT().AddFiles(fusesoc.Manifest{
					{Path: CoreVerilog, Type: fusesoc.VerilogSource},
					{Path: CoreInit, Type: fusesoc.User},
				}),
				reg.EXPECT().Write().Return(nil),
			)

			m, err := Run(args, runner, reg)

			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(Expected(args)))
			for _, each := range m {
				Expect(filepath.Join(workDir, each.Path)).To(BeAnExistingFile())
			}
		})

		It("should split the generator command line", func() {
			args.Generator = `python3 -m "litedram.gen"`
			runner.EXPECT().
				Run(workDir, []string{"python3", "-m", "litedram.gen", cfgPath()}).
				DoAndReturn(fakeGenerator("", true))
			reg.EXPECT().AddFiles(gomock.Any())
			reg.EXPECT().Write()

			_, err := Run(args, runner, reg)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should report the exit code of a failing generator", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(exitStatus(3))

			m, err := Run(args, runner, reg)

			Expect(m).To(BeNil())
			var gerr *GeneratorError
			Expect(errors.As(err, &gerr)).To(BeTrue())
			Expect(gerr.Code).To(Equal(3))
			Expect(gerr.Error()).To(ContainSubstring("exited with code 3"))
		})

		It("should report a generator that cannot start", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(errors.New("not found"))

			_, err := Run(args, runner, reg)

			var gerr *GeneratorError
			Expect(errors.As(err, &gerr)).To(BeTrue())
			Expect(gerr.Code).To(Equal(-1))
		})

		It("should fail before writing anything if the board is missing", func() {
			args.Board = "nexys-video"

			_, err := Run(args, runner, reg)

			Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue())
			Expect(filepath.Join(workDir, "build")).NotTo(BeADirectory())
		})

		It("should reject unknown modules before running the generator", func() {
			write(cfgPath(), "sdram_module: MT00X\n")

			_, err := Run(args, runner, reg)

			Expect(errors.Is(err, catalog.ErrUnknownModule)).To(BeTrue())
		})

		It("should reject a non-numeric frequency", func() {
			write(cfgPath(), "sys_clk_freq: fast\n")

			_, err := Run(args, runner, reg)

			Expect(err).To(HaveOccurred())
		})

		It("should not register an incomplete core", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(fakeGenerator("", false))

			_, err := Run(args, runner, reg)

			Expect(errors.Is(err, ErrMissingArtifact)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(CoreInit))
		})

		It("should pass on registration errors", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(fakeGenerator("", true))
			reg.EXPECT().AddFiles(gomock.Any())
			reg.EXPECT().Write().Return(errors.New("read-only"))

			_, err := Run(args, runner, reg)

			Expect(err).To(MatchError("read-only"))
		})

		It("should overwrite a previous run", func() {
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(fakeGenerator("first\n", true))
			runner.EXPECT().Run(gomock.Any(), gomock.Any()).
				DoAndReturn(fakeGenerator("second\n", true))
			reg.EXPECT().AddFiles(gomock.Any()).Times(2)
			reg.EXPECT().Write().Times(2)

			_, err := Run(args, runner, reg)
			Expect(err).NotTo(HaveOccurred())
			_, err = Run(args, runner, reg)
			Expect(err).NotTo(HaveOccurred())

			Expect(read(filepath.Join(workDir, CoreVerilog))).To(Equal("second\n"))
		})
	})

	Context("with init software", func() {
		var makeArgv []string

		fakeMake := func(hex string) func(string, []string) error {
			return func(dir string, argv []string) error {
				write(filepath.Join(workDir, "build", "software", "obj", "sdram_init.hex"), hex)
				return nil
			}
		}

		BeforeEach(func() {
			args.InitSoftware = true
			args.MainRAMBase = DefaultMainRAMBase
			makeArgv = []string{
				"make",
				"-C", filepath.Join(workDir, "build", "software"),
				"-f", filepath.Join(scriptDir, "sdram_init", "Makefile"),
			}
		})

		It("should build the init software and ship it with the wrapper", func() {
			gomock.InOrder(
				runner.EXPECT().
					Run(workDir, []string{"litedram_gen", cfgPath()}).
					DoAndReturn(fakeGenerator("module litedram_core;\n", false)),
				runner.EXPECT().
					Run(workDir, makeArgv).
					DoAndReturn(fakeMake("deadbeef\n")),
				reg.EXPECT().AddFiles(fusesoc.Manifest{
					{Path: CoreVerilog, Type: fusesoc.VerilogSource},
					{Path: WrapperVHDL, Type: fusesoc.VHDLSource2008},
					{Path: InitHex, Type: fusesoc.User},
				}),
				reg.EXPECT().Write(),
			)

			m, err := Run(args, runner, reg)

			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(HaveLen(3))
			generated := filepath.Join(workDir, "build", "software", "include", "generated")
			Expect(read(filepath.Join(generated, "mem.h"))).To(Equal(
				"// Generated by litedram-gen, do not edit\n#define MAIN_RAM_BASE 0x40000000\n"))
			Expect(read(filepath.Join(generated, "variables.mak"))).To(Equal(fmt.Sprintf(
				"BUILD_DIR=%s\nSRC_DIR=%s\nGENINC_DIR=%s\nLXSRC_DIR=%s\nLXINC_DIR=%s\n",
				filepath.Join(workDir, "build", "software"),
				filepath.Join(scriptDir, "sdram_init"),
				filepath.Join(workDir, "build", "software", "include"),
				filepath.Join(socDir, "software", "bios"),
				filepath.Join(socDir, "software", "include"),
			)))
			Expect(read(filepath.Join(workDir, InitHex))).To(Equal("deadbeef\n"))
			Expect(filepath.Join(workDir, "build", "software", "obj", "sdram_init.hex")).NotTo(BeAnExistingFile())
			Expect(read(filepath.Join(workDir, WrapperVHDL))).To(Equal("entity litedram_wrapper is\n"))
		})

		It("should use the given RAM base", func() {
			args.MainRAMBase = 0x80000000
			runner.EXPECT().Run(workDir, gomock.Any()).DoAndReturn(fakeGenerator("", false))
			runner.EXPECT().Run(workDir, makeArgv).DoAndReturn(fakeMake(""))
			reg.EXPECT().AddFiles(gomock.Any())
			reg.EXPECT().Write()

			_, err := Run(args, runner, reg)

			Expect(err).NotTo(HaveOccurred())
			Expect(read(filepath.Join(workDir, "build", "software", "include", "generated", "mem.h"))).
				To(ContainSubstring("#define MAIN_RAM_BASE 0x80000000"))
		})

		It("should keep a RAM base of zero", func() {
			args.MainRAMBase = 0
			runner.EXPECT().Run(workDir, gomock.Any()).DoAndReturn(fakeGenerator("", false))
			runner.EXPECT().Run(workDir, makeArgv).DoAndReturn(fakeMake(""))
			reg.EXPECT().AddFiles(gomock.Any())
			reg.EXPECT().Write()

			_, err := Run(args, runner, reg)

			Expect(err).NotTo(HaveOccurred())
			Expect(read(filepath.Join(workDir, "build", "software", "include", "generated", "mem.h"))).
				To(ContainSubstring("#define MAIN_RAM_BASE 0x00000000\n"))
		})

		It("should replace a stale init file", func() {
			write(filepath.Join(workDir, InitHex), "stale\n")
			runner.EXPECT().Run(workDir, gomock.Any()).DoAndReturn(fakeGenerator("", false))
			runner.EXPECT().Run(workDir, makeArgv).DoAndReturn(fakeMake("fresh\n"))
			reg.EXPECT().AddFiles(gomock.Any())
			reg.EXPECT().Write()

			_, err := Run(args, runner, reg)

			Expect(err).NotTo(HaveOccurred())
			Expect(read(filepath.Join(workDir, InitHex))).To(Equal("fresh\n"))
		})

		It("should stop when make fails", func() {
			runner.EXPECT().Run(workDir, gomock.Any()).DoAndReturn(fakeGenerator("", false))
			runner.EXPECT().Run(workDir, makeArgv).Return(exitStatus(2))

			_, err := Run(args, runner, reg)

			Expect(err).To(MatchError(ContainSubstring("sdram init software")))
		})

		It("should need the SoC directory before running anything", func() {
			args.SoCDir = ""

			_, err := Run(args, runner, reg)

			Expect(err).To(MatchError(ContainSubstring("LiteX SoC directory")))
			Expect(filepath.Join(workDir, "build")).NotTo(BeADirectory())
		})
	})
})

var _ = Describe("Variables", func() {
	It("should escape backslashes", func() {
		vars := Variables{
			{"BUILD_DIR", `C:\build\software`},
			{"SRC_DIR", "/src"},
		}
		Expect(vars.String()).To(Equal("BUILD_DIR=C:\\\\build\\\\software\nSRC_DIR=/src\n"))
	})
})

var _ = Describe("Expected", func() {
	It("should list the standalone core", func() {
		Expect(Expected(Args{})).To(Equal(fusesoc.Manifest{
			{Path: CoreVerilog, Type: fusesoc.VerilogSource},
			{Path: CoreInit, Type: fusesoc.User},
		}))
	})

	It("should list the wrapper and the init file", func() {
		Expect(Expected(Args{InitSoftware: true})).To(Equal(fusesoc.Manifest{
			{Path: CoreVerilog, Type: fusesoc.VerilogSource},
			{Path: WrapperVHDL, Type: fusesoc.VHDLSource2008},
			{Path: InitHex, Type: fusesoc.User},
		}))
	})
})

var _ = Describe("ExecRunner", func() {
	It("should report the exit code", func() {
		scriptDir := GinkgoT().TempDir()
		write(filepath.Join(scriptDir, "arty.yml"), artyYml)
		args := Args{
			Board:     "arty",
			ScriptDir: scriptDir,
			WorkDir:   GinkgoT().TempDir(),
			Generator: `sh -c "exit 3"`,
		}

		_, err := Run(args, ExecRunner{}, nil)

		var gerr *GeneratorError
		Expect(errors.As(err, &gerr)).To(BeTrue())
		Expect(gerr.Code).To(Equal(3))
	})

	It("should run in the given directory", func() {
		dir := GinkgoT().TempDir()
		Expect(ExecRunner{}.Run(dir, []string{"sh", "-c", "echo ok > out.txt"})).To(Succeed())
		Expect(read(filepath.Join(dir, "out.txt"))).To(Equal("ok\n"))
	})

	It("should refuse an empty command", func() {
		Expect(ExecRunner{}.Run(".", nil)).NotTo(Succeed())
	})
})
