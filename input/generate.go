package input

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"
)

// Sample material for the generator. The KVP blocks deliberately contain
// bare LF characters, because the logging framework emits its trailing KVPs
// across soft line breaks.
var (
	generatorLevels = []string{"[INFO_]", "[VRBSE]", "[WARNG]", "[ERROR]", "[FATAL]"}

	generatorMessages = []string{
		"Some random message",
		"Another message",
		"A message of no importance",
		"A really important message that you should pay attention to",
		"A message you can ignore",
	}

	generatorSources = []string{
		"CleverComponent",
		"DumbComponent",
		"FooController",
		"SpecialManager",
		"Blob",
	}

	generatorKvpBlocks = []string{
		"Foo=200",
		"Bar=Whatever\nSomething=Else",
		"Bar=Whatever\nSomething=Else Extra=Spicy",
		"Inverse=True Ref=123",
		"Inverse=False Ref=ABCDEF\nSomething=Nicaragua Extra=Sweet",
	}
)

// Generate - Writes numLines well-formed sample log lines, for trying out
// the converter and for benchmarking. The shapes mirror what the logging
// framework emits: full prologue, a message, and trailing KVPs that may
// continue over soft line breaks. Correlation keys repeat across lines the
// way real request-scoped keys do.
func Generate(w io.Writer, numLines int) error {
	writer := bufio.NewWriter(w)

	correlationKeys := make([]string, 8)
	for i := range correlationKeys {
		correlationKeys[i] = uuid.New().String()
	}

	for i := 0; i < numLines; i++ {
		correlationKey := ""
		if rand.Intn(5) < 3 {
			correlationKey = "CorrelationKey=" + correlationKeys[rand.Intn(len(correlationKeys))]
		}
		executionTime := ""
		if rand.Intn(5) < 3 {
			executionTime = fmt.Sprintf("CallRecorderExecutionTime=%d", 12+rand.Intn(1238))
		}

		_, err := fmt.Fprintf(writer,
			"2018-01-23 09:12:32.%07d | MachineName=name.of.computer | AppName=Something.Host | pid=%d | tid=%d | %s | %s Source=%s %s %s %s %s\r\n",
			i,
			i%20,
			100+i%3,
			generatorLevels[rand.Intn(len(generatorLevels))],
			generatorMessages[rand.Intn(len(generatorMessages))],
			generatorSources[rand.Intn(len(generatorSources))],
			generatorKvpBlocks[rand.Intn(len(generatorKvpBlocks))],
			correlationKey,
			generatorKvpBlocks[rand.Intn(len(generatorKvpBlocks))],
			executionTime,
		)
		if err != nil {
			return err
		}
	}

	return writer.Flush()
}
