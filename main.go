package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/sealnote/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		runEncrypt(ctx, os.Args[2:])
	case "decrypt":
		runDecrypt(ctx, os.Args[2:])
	case "put":
		runPut(ctx, os.Args[2:])
	case "get":
		runGet(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "ls":
		runLs(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "serve":
		runServe(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runEncrypt(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	message := fs.String("m", "", "Message to seal (read from stdin when omitted)")
	parse(fs, args)

	cmd.Encrypt(ctx, *message)
}

func runDecrypt(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	parse(fs, args)

	cmd.Decrypt(ctx, fs.Arg(0))
}

func runPut(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	message := fs.String("m", "", "Message to seal (read from stdin when omitted)")
	parse(fs, args)

	cmd.Put(ctx, *message)
}

func runGet(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	parse(fs, args)

	cmd.Get(ctx, fs.Arg(0))
}

func runRm(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	parse(fs, args)

	cmd.Remove(ctx, fs.Args())
}

func runLs(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	parse(fs, args)

	cmd.Ls(ctx)
}

func runCompact(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	parse(fs, args)

	cmd.Compact(ctx)
}

func runServe(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (overrides SEALNOTE_ADDR and PORT)")
	parse(fs, args)

	cmd.Serve(ctx, *addr)
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: sealnote completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("sealnote - Password-sealed notes")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sealnote <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Seal a message and print the envelope")
	fmt.Println("  decrypt     Open an envelope")
	fmt.Println("  put         Seal a message and store it as a note")
	fmt.Println("  get         Open a stored note")
	fmt.Println("  rm          Remove stored notes")
	fmt.Println("  ls          List stored notes")
	fmt.Println("  compact     Compact the note database to reclaim disk space")
	fmt.Println("  serve       Run the HTTP API")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  sealnote encrypt -m 'launch code'     # Print an envelope")
	fmt.Println("  sealnote decrypt 'a1b2...:...'        # Open it again")
	fmt.Println("  echo secret | sealnote put            # Store a note, print its ID")
	fmt.Println("  sealnote serve                        # Serve the API on :3000")
	fmt.Println()
	fmt.Println("Use 'sealnote help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("sealnote encrypt [-m <message>]")
		fmt.Println()
		fmt.Println("Seals a message with a password and prints the envelope")
		fmt.Println("(salt:iv:tag:ciphertext, hex). Nothing is stored.")
		fmt.Println("Reads the message from stdin when -m is not given.")
		fmt.Println("The password is read from SEALNOTE_PASSWORD or prompted twice.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  sealnote encrypt -m 'hello'")
		fmt.Println("  sealnote encrypt < secret.txt")
	case "decrypt":
		fmt.Println("sealnote decrypt [<envelope>]")
		fmt.Println()
		fmt.Println("Opens an envelope and prints the message.")
		fmt.Println("Reads the envelope from stdin when no argument is given.")
		fmt.Println("Every failure reports the same 'decryption failed' error.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  sealnote decrypt 'a1b2...:...'")
		fmt.Println("  sealnote encrypt -m hi | sealnote decrypt")
	case "put":
		fmt.Println("sealnote put [-m <message>]")
		fmt.Println()
		fmt.Println("Seals a message and stores it in the configured note store.")
		fmt.Println("Prints the new note ID.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  sealnote put -m 'wifi password'")
	case "get":
		fmt.Println("sealnote get <id>")
		fmt.Println()
		fmt.Println("Opens a stored note and prints its message.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  sealnote get 5f0c...")
	case "rm":
		fmt.Println("sealnote rm <id> [id...]")
		fmt.Println()
		fmt.Println("Removes notes from the store. Does not require a password.")
		fmt.Println("The bolt database is compacted afterwards.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  sealnote rm 5f0c...")
	case "ls":
		fmt.Println("sealnote ls")
		fmt.Println()
		fmt.Println("Lists stored notes with their creation time and sealed size.")
		fmt.Println("Does not require a password.")
	case "compact":
		fmt.Println("sealnote compact")
		fmt.Println()
		fmt.Println("Compacts the bolt database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm', but can be run manually.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "serve":
		fmt.Println("sealnote serve [-addr <host:port>]")
		fmt.Println()
		fmt.Println("Runs the HTTP API until interrupted.")
		fmt.Println()
		fmt.Println("Environment (also read from .env):")
		fmt.Println("  SEALNOTE_ADDR, PORT             Listen address (default :3000)")
		fmt.Println("  SEALNOTE_STORE                  bolt or mongo (default bolt)")
		fmt.Println("  SEALNOTE_DB_PATH                Bolt database file (default .sealnote)")
		fmt.Println("  MONGO_URI                       MongoDB connection string")
		fmt.Println("  SEALNOTE_MONGO_DATABASE         MongoDB database (default sealnote)")
		fmt.Println("  SEALNOTE_MAX_CONCURRENT_KDF     Parallel key derivations (default 4)")
		fmt.Println("  SEALNOTE_BASE_URL               Public URL used in note links")
		fmt.Println("  SEALNOTE_LOG_FORMAT             text or json")
		fmt.Println("  SEALNOTE_LOG_LEVEL              debug, info, warn or error")
	case "completion":
		fmt.Println("sealnote completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(sealnote completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(sealnote completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  sealnote completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
