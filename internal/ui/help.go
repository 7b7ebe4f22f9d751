package ui

const (
	projectURL  = "https://github.com/roblatour/PBSMS"
	securityURL = "https://github.com/roblatour/PBSMS/PBPSMSAPIKeySecurity.md"
)

// Help prints usage, arguments, examples, return codes and notes.
func (p *Printer) Help(version string) {
	p.Blank()
	p.Heading("PBSMS v" + version + " - A command line program to send SMS messages using Pushbullet")

	p.Blank()
	p.Heading("Usage:")
	p.Plain("For first use (and for later to change the Pushbullet API Key):")
	p.Plain("   pbsms APIKey=<Pushbullet API key>")
	p.Blank()
	p.Plain("To remove (delete) the API key:")
	p.Plain("   pbsms APIKey=remove")
	p.Blank()
	p.Plain("To send a SMS:")
	p.Plain("   pbsms <phone number> <message>")

	p.Blank()
	p.Heading("Arguments:")
	p.Plain("Pushbullet API key      Pushbullet API key")
	p.Plain("phone number            Destination phone number in international format (e.g., +1234567890)")
	p.Plain("message                 Text message to send (surrounded by double quotes)")

	p.Blank()
	p.Heading("Flags:")
	p.Plain("--config <file>         Config file (default <home>/config.yaml)")
	p.Plain("--home <dir>            Directory holding the encrypted key")
	p.Plain("-v, --verbose           Debug logging on stderr")
	p.Plain("--version               Print the version")

	p.Blank()
	p.Heading("Examples:")
	p.Plain("pbsms APIKey=o.abc1def2ghi3klm5mno6pqr7stu8vwx9")
	p.Plain("pbsms +15551234567 \"Hello world\"")

	p.Blank()
	p.Heading("Return codes:")
	p.Plain("If no errors are reported the program will provide a return code of zero (0), otherwise")
	p.Plain("a one (1) will be provided.")

	p.Blank()
	p.Heading("Notes:")
	p.Plain("1. For more information on Pushbullet please see:")
	p.Plain("https://www.pushbullet.com/")
	p.Blank()
	p.Plain("2. For more information on how PBSMS encrypts and stores the Pushbullet API Key please see:")
	p.Plain(securityURL)

	p.Blank()
	p.line(p.brand, "PBSMS")
	p.line(p.brand, "License: MIT")
	p.line(p.brand, projectURL)
	p.Blank()
}
