package cmd

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gtkrshnaaa/cevia/api"
	"github.com/gtkrshnaaa/cevia/envconfig"
)

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate MODEL_PREFIX INPUT...",
		Short: "Generate a single response",
		Args:  cobra.MinimumNArgs(2),
		RunE:  generateHandler,
	}

	cmd.Flags().Float64("temp", 0.7, "Sampling temperature (0 picks the top token)")
	cmd.Flags().Int("max-tokens", 20, "Maximum response length in tokens")
	cmd.Flags().Int64("seed", 0, "Sampling seed for reproducible output (0 keeps the clock seed)")

	return cmd
}

func generateHandler(cmd *cobra.Command, args []string) error {
	prefix := args[0]
	input := strings.Join(args[1:], " ")

	temperature, _ := cmd.Flags().GetFloat64("temp")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	m, err := loadModel(prefix)
	if err != nil {
		return err
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		m.SetSeed(seed)
	}

	fmt.Printf("Input: %s\n", input)
	fmt.Printf("Response: %s\n", m.Generate(input, maxTokens, temperature))
	return nil
}

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the model",
		Args:  cobra.NoArgs,
		RunE:  chatHandler,
	}

	cmd.Flags().String("model-prefix", "", "Path prefix for the model files (default from CEVIA_MODELS)")
	cmd.Flags().Float64("temp", 0.7, "Sampling temperature (0 picks the top token)")
	cmd.Flags().Int("max-tokens", 20, "Maximum response length in tokens")
	cmd.Flags().String("host", "", "Chat against a running cevia server instead of local files")

	return cmd
}

func chatHandler(cmd *cobra.Command, args []string) error {
	temperature, _ := cmd.Flags().GetFloat64("temp")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	host, _ := cmd.Flags().GetString("host")

	var respond func(input string) (string, error)

	if host != "" {
		client := clientForHost(host)
		respond = func(input string) (string, error) {
			var response string
			err := client.Generate(cmd.Context(), &api.GenerateRequest{
				Prompt:      input,
				MaxTokens:   maxTokens,
				Temperature: &temperature,
			}, func(resp api.GenerateResponse) error {
				response += resp.Response
				return nil
			})
			return response, err
		}
	} else {
		prefix, _ := cmd.Flags().GetString("model-prefix")
		if prefix == "" {
			prefix = defaultModelPrefix()
		}
		m, err := loadModel(prefix)
		if err != nil {
			return err
		}
		respond = func(input string) (string, error) {
			return m.Generate(input, maxTokens, temperature), nil
		}
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("Cevia chat mode (type 'exit' to quit)")
		fmt.Printf("Temperature: %.2f, Max tokens: %d\n\n", temperature, maxTokens)
	}

	history := newHistory()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("You: ")
		}
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}
		if history != nil {
			history.Add(input)
		}

		response, err := respond(input)
		if err != nil {
			return err
		}
		fmt.Printf("Cevia: %s\n\n", response)
	}

	return scanner.Err()
}

// clientForHost builds an API client for host, falling back to CEVIA_HOST
// semantics for a bare host without port.
func clientForHost(host string) *api.Client {
	if host == "" {
		host = envconfig.Host
	}
	if !strings.Contains(host, ":") {
		host += ":11540"
	}
	return api.NewClient(&url.URL{Scheme: "http", Host: host}, http.DefaultClient)
}
