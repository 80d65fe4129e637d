package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/handreceipt/hr-cli/internal/core/services"
	"github.com/handreceipt/hr-cli/pkg/ui"
)

// photoCmd represents the photo command
var photoCmd = &cobra.Command{
	Use:   "photo <serial> <image>",
	Short: "Attach a photo to a property",
	Long: `Upload a photo for a property record.

Photo uploads are online-only and are never queued for offline replay.

Examples:
  hr photo W123456 rifle.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runPhoto,
}

func runPhoto(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[1])
	if err != nil {
		fmt.Println(ui.FormatError("Failed to open image"))
		return err
	}
	defer file.Close()

	req := services.AttachPhotoRequest{
		Serial:   args[0],
		Filename: filepath.Base(args[1]),
		Photo:    file,
	}

	resp, err := propertyService.AttachPhoto(getContext(), req)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to attach photo"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Photo attached to " + resp.Property.DisplayName()))
	fmt.Println(ui.RenderKeyValue("URL", resp.PhotoURL))

	return nil
}
