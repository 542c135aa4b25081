package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/textprep"
)

var (
	chunkDocument string
	chunkSize     int
	chunkOverlap  int
	chunkMaxChars int
)

// chunkOutput is the result of the chunk command.
type chunkOutput struct {
	Window    string   `json:"window,omitempty"`
	Truncated bool     `json:"truncated,omitempty"`
	Chunks    []string `json:"chunks"`
}

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Clean a document and split it into overlapping chunks",
	Long: `Clean a document the way extraction sees it and split it into
chunks on paragraph, line, sentence and word boundaries.

With --max-chars the document is first cut to that many characters,
as extraction does with extraction.max_document_chars.

Examples:
  hastd chunk --document d.txt
  hastd chunk --document d.txt --size 400 --overlap 50 -o json
  hastd chunk --document d.txt --max-chars 2000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get().Extraction
		size, overlap := cfg.ChunkSize, cfg.ChunkOverlap
		if cmd.Flags().Changed("size") {
			size = chunkSize
		}
		if cmd.Flags().Changed("overlap") {
			overlap = chunkOverlap
		}

		doc, err := readInput(chunkDocument)
		if err != nil {
			return err
		}

		var out chunkOutput
		text := textprep.Clean(string(doc))
		if chunkMaxChars > 0 {
			text, out.Truncated = textprep.Window(text, chunkMaxChars)
			out.Window = text
		}
		out.Chunks = textprep.Chunk(text, size, overlap)
		if out.Chunks == nil {
			out.Chunks = []string{}
		}
		return api.Output(out)
	},
}

func init() {
	chunkCmd.Flags().StringVar(&chunkDocument, "document", "-", "Document text file (- for stdin)")
	chunkCmd.Flags().IntVar(&chunkSize, "size", textprep.DefaultChunkSize, "Maximum chunk size in characters (default from config)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", textprep.DefaultChunkOverlap, "Characters carried into the next chunk (default from config)")
	chunkCmd.Flags().IntVar(&chunkMaxChars, "max-chars", 0, "Cut the document to this many characters first")

	rootCmd.AddCommand(chunkCmd)
}
