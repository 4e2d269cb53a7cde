package cmd

import (
	"fmt"
	"log"
	"time"

	"photofolio/config"
	"photofolio/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
	minioDelete bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect and manage the image bucket",
	Long:  `Lists objects in the image bucket, shows bucket statistics, or deletes a prefix and everything under it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		client, err := storage.NewBucketClient(
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("failed to create bucket client: %v", err)
		}

		switch {
		case minioDelete:
			if minioPrefix == "" {
				log.Fatal("delete requires a --prefix")
			}
			if err := client.DeletePrefix(minioPrefix); err != nil {
				log.Fatalf("failed to delete prefix: %v", err)
			}
		case minioStats:
			stats, err := client.Stats()
			if err != nil {
				log.Fatalf("failed to get bucket stats: %v", err)
			}
			fmt.Printf("Bucket: %s\n", cfg.MinioBucket)
			fmt.Printf("Objects: %d\n", stats.TotalObjects)
			fmt.Printf("Total size: %.2f MB\n", float64(stats.TotalSize)/1024/1024)
			if !stats.LastModified.IsZero() {
				fmt.Printf("Last modified: %s\n", stats.LastModified.Format(time.RFC3339))
			}
		default:
			if err := client.ListObjects(minioPrefix); err != nil {
				log.Fatalf("failed to list objects: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "filter objects by prefix, or the prefix to delete")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "show bucket statistics")
	minioCmd.Flags().BoolVarP(&minioDelete, "delete", "d", false, "delete the given prefix and everything under it")

	minioCmd.Example = `  # list all objects
  photofolio minio

  # list objects under an album prefix
  photofolio minio -p "weddings/"

  # show bucket statistics
  photofolio minio -s

  # delete an album prefix
  photofolio minio -d -p "weddings/"`
}
