package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "transfer":
		return runTransfer(args[1:])
	case "list":
		return runList(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("emoji-transfer: copy custom emoji from one Slack workspace to another")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  emoji-transfer list --source-token <token>")
	fmt.Println("  emoji-transfer transfer --source-token <token> --dest-token xoxs-<token>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  transfer  list source emoji, preview, then upload them in timed batches")
	fmt.Println("  list      print the source workspace's custom emoji and aliases")
	fmt.Println("  settings  show the effective settings")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Tokens left out are prompted for on the terminal")
	fmt.Println("  - Batches start every --seconds-per-batch, even if the previous one is still running")
	fmt.Println("  - Aliases are listed but never uploaded")
	fmt.Println("  - Use --json on commands for machine-readable output")
}
