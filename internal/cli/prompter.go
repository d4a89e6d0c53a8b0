package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"emoji-transfer/internal/model"
)

var errPromptCancelled = errors.New("cancelled")

const previewQuestion = "Do you want to preview the list being imported first? y/n"

// prompter collects tokens and the preview decision. Tokens supplied up
// front skip the prompt; the destination token is still validated.
type prompter struct {
	reader      *bufio.Reader
	in          io.Reader
	out         io.Writer
	interactive bool

	sourceToken      string
	destinationToken string
}

func newPrompter(cio commandIO, sourceToken, destinationToken string) *prompter {
	return &prompter{
		reader:           bufio.NewReader(cio.In),
		in:               cio.In,
		out:              cio.Out,
		interactive:      cio.Interactive,
		sourceToken:      strings.TrimSpace(sourceToken),
		destinationToken: strings.TrimSpace(destinationToken),
	}
}

func (p *prompter) SourceToken() (string, error) {
	if p.sourceToken != "" {
		return p.sourceToken, nil
	}
	token, err := p.askToken("Source workspace token", model.ValidateSourceToken)
	if err != nil {
		return "", &model.CredentialInputError{Field: "source token", Err: err}
	}
	p.sourceToken = token
	return token, nil
}

func (p *prompter) DestinationToken() (string, error) {
	if p.destinationToken != "" {
		if err := model.ValidateDestinationToken(p.destinationToken); err != nil {
			return "", &model.CredentialInputError{Field: "destination token", Err: err}
		}
		return p.destinationToken, nil
	}
	token, err := p.askToken("Destination workspace token ("+model.DestinationTokenPrefix+"...)", model.ValidateDestinationToken)
	if err != nil {
		return "", &model.CredentialInputError{Field: "destination token", Err: err}
	}
	p.destinationToken = token
	return token, nil
}

// Preview asks whether to show the list before transferring. An empty
// answer means yes; anything but y or yes skips the preview.
func (p *prompter) Preview() (bool, error) {
	if p.interactive {
		return runQuestionProgram(p.in, p.out, previewQuestion, true)
	}
	fmt.Fprintf(p.out, "%s [y]: ", previewQuestion)
	line, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("read preview answer: %w", err)
	}
	return answerAccepts(line), nil
}

// ConfirmTransfer shows the preview and asks whether to continue. Only an
// explicit n or no stops the run.
func (p *prompter) ConfirmTransfer(descriptors []model.EmojiDescriptor, skipped []model.SkippedEntry) (bool, error) {
	if p.interactive {
		return runPreviewProgram(p.in, p.out, descriptors, skipped)
	}
	fmt.Fprint(p.out, renderPreviewText(descriptors, skipped))
	fmt.Fprintf(p.out, "Transfer %d emoji? [Y/n]: ", len(descriptors))
	line, err := p.readLine()
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return !answerDeclines(line), nil
}

func (p *prompter) askToken(label string, validate func(string) error) (string, error) {
	if p.interactive {
		return runTokenProgram(p.in, p.out, label, validate)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(line)
	if err := validate(token); err != nil {
		return "", err
	}
	return token, nil
}

// readLine returns the next line without its terminator. A final line
// without a newline is accepted; EOF with nothing read is an error.
func (p *prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func answerAccepts(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "y", "yes":
		return true
	}
	return false
}

func answerDeclines(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "n", "no":
		return true
	}
	return false
}

func renderPreviewText(descriptors []model.EmojiDescriptor, skipped []model.SkippedEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d emoji to transfer:\n", len(descriptors))
	for _, d := range descriptors {
		fmt.Fprintf(&b, "  :%s:  %s\n", d.Name, d.SourceURL)
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "%d skipped:\n", len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(&b, "  :%s:  %s\n", s.Name, s.Reason)
		}
	}
	return b.String()
}
