package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/lookbusy1344/riscv32-sim/api"
	"github.com/lookbusy1344/riscv32-sim/config"
	"github.com/lookbusy1344/riscv32-sim/debugger"
	"github.com/lookbusy1344/riscv32-sim/disasm"
	"github.com/lookbusy1344/riscv32-sim/loader"
	"github.com/lookbusy1344/riscv32-sim/predictor"
	"github.com/lookbusy1344/riscv32-sim/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		disasmMode  = flag.Bool("d", false, "Disassemble the text segment and exit")
		traceFile   = flag.String("l", "", "Write a per-instruction trace to FILE")
		summaryFile = flag.String("s", "", "Write only a summary line to FILE")
		predType    = flag.String("p", cfg.Predictor.Default, "Branch predictor: none, NT, BTFNT, bimodal-256/1K/4K/16K, gshare-256/1K/4K/16K")
		debugMode   = flag.Bool("debug", false, "Start in command-line debugger mode")
		tuiMode     = flag.Bool("tui", false, "Start in TUI debugger mode")
		apiServer   = flag.Bool("api-server", cfg.API.Enable, "Start HTTP/WebSocket API server mode")
		apiPort     = flag.Int("port", cfg.API.Port, "API server port (used with -api-server)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("riscv32-sim %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	args := flag.Args()
	guestArgs := args
	for i, a := range args {
		if a == "--" {
			guestArgs = args[i+1:]
			args = args[:i]
			break
		}
	}

	if len(args) == 0 {
		printHelp()
		os.Exit(-1)
	}

	elfPath := args[0]
	if _, err := os.Stat(elfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", elfPath)
		os.Exit(-1)
	}

	machine := vm.NewMachine()
	machine.MaxInsns = cfg.Execution.MaxInstructions

	info, err := loader.Load(machine, elfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", elfPath, err)
		os.Exit(-1)
	}

	symbols, err := loader.SymbolsFromELF(elfPath)
	if err != nil {
		symbols = vm.NewSymbolTable(nil)
	}

	if cfg.Execution.EntryOverride != "" {
		entry, parseErr := strconv.ParseUint(cfg.Execution.EntryOverride, 0, 32)
		if parseErr != nil {
			if addr, ok := symbols.Lookup(cfg.Execution.EntryOverride); ok {
				entry = uint64(addr)
			} else {
				fmt.Fprintf(os.Stderr, "Error: invalid entry_override %q\n", cfg.Execution.EntryOverride)
				os.Exit(-1)
			}
		}
		machine.EntryPoint = uint32(entry)
		machine.CPU.PC = uint32(entry)
	}

	if *disasmMode {
		disassembleTextSegment(machine, info, symbols)
		os.Exit(0)
	}

	pred, err := predictor.New(predictor.Type(*predType))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(-1)
	}
	machine.Predictor = pred

	loader.PassArgsToProgram(machine, guestArgs)

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine)
		dbg.LoadSymbols(symbols.All())

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(-1)
			}
			return
		}

		if err := debugger.RunCLI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
			os.Exit(-1)
		}
		return
	}

	effectiveTraceFile := *traceFile
	if effectiveTraceFile == "" {
		effectiveTraceFile = cfg.Execution.TraceOutput
	}
	effectiveSummaryFile := *summaryFile
	if effectiveSummaryFile == "" {
		effectiveSummaryFile = cfg.Execution.StatsOutput
	}

	var traceWriter *os.File
	if effectiveTraceFile != "" {
		traceWriter, err = os.Create(effectiveTraceFile) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(-1)
		}
		defer traceWriter.Close()

		machine.Trace = vm.NewExecutionTrace(traceWriter)
		machine.Trace.Symbols = symbols
	}

	for {
		cont, stepErr := machine.Step()
		if stepErr != nil {
			os.Exit(-1)
		}
		if !cont {
			break
		}
	}

	summaryDest := os.Stdout
	var summaryWriter *os.File
	if effectiveSummaryFile != "" {
		summaryWriter, err = os.Create(effectiveSummaryFile) // #nosec G304 -- user-specified summary output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating summary file: %v\n", err)
			os.Exit(-1)
		}
		defer summaryWriter.Close()
		summaryDest = summaryWriter
	}

	machine.Stats.WriteSummary(summaryDest)
	if predictor.Type(*predType) != predictor.TypeNone && *predType != "" {
		vm.WritePredictorReport(summaryDest, machine.Predictor)
	}

	os.Exit(int(machine.ExitCode))
}

// disassembleTextSegment renders every instruction word in [TextStart,
// TextEnd) as a mnemonic line, implementing the "sim ELF -d" CLI surface.
func disassembleTextSegment(machine *vm.Machine, info loader.ProgramInfo, symbols *vm.SymbolTable) {
	for addr := info.TextStart; addr < info.TextEnd; addr += 4 {
		word := machine.Memory.ReadWord(addr)
		fmt.Printf("%08x: %08x  %s\n", addr, word, disasm.Disassemble(addr, word, symbols.FormatAddressCompact))
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Println("riscv32-sim - an RV32IM instruction-set simulator with pluggable branch prediction")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sim ELF [flags] [-- arg1 arg2 ...]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Predictor types: none, NT, BTFNT, bimodal-256, bimodal-1K, bimodal-4K, bimodal-16K,")
	fmt.Println("                  gshare-256, gshare-1K, gshare-4K, gshare-16K")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sim program.elf                      run to completion")
	fmt.Println("  sim program.elf -d                    disassemble the text segment")
	fmt.Println("  sim program.elf -l trace.log          run with a per-instruction trace")
	fmt.Println("  sim program.elf -p gshare-1K           run with a gshare-1K branch predictor")
	fmt.Println("  sim program.elf -- hello world         pass arguments to the guest program")
	fmt.Println()
	fmt.Printf("Config file: %s\n", config.GetConfigPath())
}
