package handlers

import (
	"net/url"
	"strconv"
	"time"

	config "github.com/anjiri1684/hireloom/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const resumeFolder = "hireloom_resumes"

// GenerateResumeUploadSignature signs a direct browser upload of a candidate
// resume to Cloudinary.
func GenerateResumeUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	if cloudinaryURL == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "File uploads are not configured"})
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize Cloudinary"})
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse Cloudinary URL"})
	}
	secret, _ := parsedURL.User.Password()

	params, err := api.StructToParams(uploader.UploadParams{Folder: resumeFolder})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare signature params"})
	}
	timestamp := time.Now().Unix()
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}

	return c.JSON(fiber.Map{
		"signature":     signature,
		"timestamp":     timestamp,
		"api_key":       cld.Config.Cloud.APIKey,
		"cloud_name":    cld.Config.Cloud.CloudName,
		"folder":        resumeFolder,
		"resource_type": "raw",
	})
}
