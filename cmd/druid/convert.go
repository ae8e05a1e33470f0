package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/render"
)

var convertCmd = &cobra.Command{
	Use:   "convert <image> <out>",
	Short: "Convert an image into a raw RGBA buffer",
	Long: `Decode an image (PNG, JPEG, GIF, BMP, TIFF or WebP) into a bitmap of
packed 0xAARRGGBB colors, run it through the pixel bridge and write the
resulting interleaved R, G, B, A bytes to <out>. The output holds exactly
width*height*4 bytes, row-major, without a header.

Examples:
  druid convert asset/example.png example.rgba
  druid convert photo.webp - | xxd | head`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	bmp, err := asset.NewFileLoader("").LoadBitmap(context.Background(), in)
	if err != nil {
		return err
	}

	buf, err := render.Convert(bmp)
	if err != nil {
		return err
	}

	if out == "-" {
		_, err := os.Stdout.Write(buf.Pix)
		return err
	}
	if err := os.WriteFile(out, buf.Pix, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", out, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %dx%d, %d bytes\n", out, buf.Width, buf.Height, len(buf.Pix))
	return nil
}
