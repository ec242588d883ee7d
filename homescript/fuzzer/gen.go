package fuzzer

import (
	"crypto/md5"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/smarthome-go/hmsrun/homescript/parser/ast"
)

type Generator struct {
	onOutput             func(tree ast.Program, treeStr string, hashSum string) error
	seed                 int64
	input                ast.Program
	passes               uint
	terminateAfterNTries uint
	outputLimitPerPass   uint
	numWorkers           uint
	logger               *log.Logger
}

func NewGenerator(
	input ast.Program,
	onOutput func(ast.Program, string, string) error,
	seed int64,
	passes uint,
	terminateAfterNTries uint,
	outputSizeLimit uint,
	numWorkers uint,
	logger *log.Logger,
) Generator {
	if numWorkers == 0 {
		numWorkers = 1
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return Generator{
		onOutput:             onOutput,
		seed:                 seed,
		input:                input,
		passes:               passes,
		terminateAfterNTries: terminateAfterNTries,
		outputLimitPerPass:   outputSizeLimit,
		numWorkers:           numWorkers,
		logger:               logger,
	}
}

func ChunkInput[T any](input []T, chunkSize uint) [][]T {
	var chunks [][]T

	if chunkSize == 0 {
		chunkSize = 1
	}

	for {
		if len(input) == 0 {
			break
		}

		// Necessary check to avoid slicing beyond slice capacity
		if uint(len(input)) < chunkSize {
			chunkSize = uint(len(input))
		}

		chunks = append(chunks, input[0:chunkSize])
		input = input[chunkSize:]
	}

	return chunks
}

func Hash(treeStr string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(treeStr)))
}

// Gen runs every pass and reports each distinct program through the output callback.
// The output of a pass is the input of the next one.
func (self *Generator) Gen() error {
	startAll := time.Now()

	passResults := make([][]ast.Program, self.passes+1)
	passResults[0] = []ast.Program{self.input}

	// Serializes the output callback and deduplicates across workers
	var outputLock sync.Mutex
	seen := map[string]struct{}{Hash(self.input.String()): {}}
	var outputErr error

	emit := func(tree ast.Program, treeStr string, sum string) bool {
		outputLock.Lock()
		defer outputLock.Unlock()

		if outputErr != nil {
			return false
		}

		if _, found := seen[sum]; found {
			return false
		}
		seen[sum] = struct{}{}

		if err := self.onOutput(tree, treeStr, sum); err != nil {
			outputErr = err
			return false
		}
		return true
	}

	for passIndex := 0; passIndex < int(self.passes); passIndex++ {
		start := time.Now()

		inputSize := uint(len(passResults[passIndex]))
		chunkSize := (inputSize + self.numWorkers - 1) / self.numWorkers

		inputChunks := ChunkInput[ast.Program](passResults[passIndex], chunkSize)
		numChunks := uint(len(inputChunks))
		outputChunks := make([][]ast.Program, numChunks)

		wg := sync.WaitGroup{}

		for chunkIndex := 0; uint(chunkIndex) < numChunks; chunkIndex++ {
			self.logger.Printf("Spawning worker %d for pass %d...\n", chunkIndex, passIndex)

			wg.Add(1)
			go self.Pass(
				&wg,
				// Every worker gets its own deterministic random source
				self.seed+int64(passIndex)*int64(self.numWorkers)+int64(chunkIndex),
				inputChunks[chunkIndex],
				&outputChunks[chunkIndex],
				(self.outputLimitPerPass+numChunks-1)/numChunks,
				emit,
			)
		}

		wg.Wait()

		// Slice the output chunks together again
		for chunkIndex := 0; uint(chunkIndex) < numChunks; chunkIndex++ {
			passResults[passIndex+1] = append(passResults[passIndex+1], outputChunks[chunkIndex]...)
		}

		self.logger.Printf("Pass %d duration: %v for input size %d\n", passIndex, time.Since(start), len(passResults[passIndex]))

		if outputErr != nil {
			return outputErr
		}
	}

	self.logger.Printf("Fuzz: %v, generated: %d\n", time.Since(startAll), len(seen)-1)
	return nil
}

// Pass transforms the input trees until no new trees are found or the output limit is reached.
func (self *Generator) Pass(
	wg *sync.WaitGroup,
	seed int64,
	inputTrees []ast.Program,
	outputTrees *[]ast.Program,
	outputSizeLimit uint,
	emit func(tree ast.Program, treeStr string, sum string) bool,
) {
	defer wg.Done()

	var countNoNew uint = 0
	trans := NewTransformer(seed)

	for countNoNew < self.terminateAfterNTries && uint(len(*outputTrees)) < outputSizeLimit {
		for _, tree := range inputTrees {
			newTree := trans.Transform(tree)
			newTreeStr := newTree.String()

			if !emit(newTree, newTreeStr, Hash(newTreeStr)) {
				countNoNew++
				continue
			}

			countNoNew = 0
			*outputTrees = append(*outputTrees, newTree)

			if uint(len(*outputTrees)) >= outputSizeLimit {
				return
			}
		}
	}
}
