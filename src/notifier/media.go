package notifier

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	"github.com/kleros/t2cr-twitter-bot/src/utils/eth"
	"github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	"github.com/sirupsen/logrus"
)

// MediaStore supplies the image bytes attached to submission messages
type MediaStore struct {
	fetcher       ContentFetcher
	badgeAssetDir string
	log           *logrus.Entry
}

func NewMediaStore(config *config.Notifier, fetcher ContentFetcher) (self *MediaStore) {
	self = new(MediaStore)
	self.fetcher = fetcher
	self.badgeAssetDir = config.BadgeAssetDir
	self.log = logger.NewSublogger("media-store")
	return
}

// RegistryLogo downloads the submitted token logo referenced by its
// content hash. The image is staged through a scratch file that is removed
// on every path.
func (self *MediaStore) RegistryLogo(ctx context.Context, symbolMultihash string) (data []byte, err error) {
	fetched, contentType, err := self.fetcher.Get(ctx, symbolMultihash)
	if err != nil {
		return
	}

	data, err = self.stageThroughScratchFile(fetched, contentType)
	return
}

// BadgeAsset loads the static image provisioned for a badge contract
func (self *MediaStore) BadgeAsset(badgeAddress string) (data []byte, err error) {
	path := filepath.Join(self.badgeAssetDir, eth.Checksum(badgeAddress)+".jpg")
	data, err = os.ReadFile(path)
	return
}

func (self *MediaStore) stageThroughScratchFile(data []byte, contentType string) (out []byte, err error) {
	ext := "img"
	if _, after, found := strings.Cut(contentType, "/"); found && after != "" {
		ext = after
	}

	file, err := os.CreateTemp("", "logo-*."+ext)
	if err != nil {
		return
	}
	defer func() {
		removeErr := os.Remove(file.Name())
		if removeErr != nil {
			self.log.WithError(removeErr).WithField("path", file.Name()).Warn("Failed to remove scratch file")
		}
	}()

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		return
	}
	err = file.Close()
	if err != nil {
		return
	}

	out, err = os.ReadFile(file.Name())
	return
}
