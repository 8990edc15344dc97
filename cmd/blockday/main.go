// Command blockday runs the time-block reminder engine: a daemon that
// derives and fires notifications for today's schedule, plus small
// subcommands for applying notification actions and inspecting today.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("blockday", version)
		return
	}

	var code int
	switch os.Args[1] {
	case "daemon":
		code = cmdDaemon(os.Args[2:])
	case "add":
		code = cmdAdd(os.Args[2:])
	case "action":
		code = cmdAction(os.Args[2:])
	case "clear":
		code = cmdClear(os.Args[2:])
	case "today":
		code = cmdToday(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "blockday: unknown command %q\n\n", os.Args[1])
		printUsage()
		code = 1
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Print(`usage: blockday <command> [flags]

commands:
  daemon    run the reminder engine for today's schedule
  add       add a time block to a day's schedule
  action    apply a notification action (complete/skip/snooze)
  clear     delete a day's schedule and cancel its pending reminders
  today     show today's schedule and pending reminders
  version   print version

Run 'blockday <command> -h' for command flags.
`)
}

func fatal(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, "blockday: "+format+"\n", args...)
	return 1
}
