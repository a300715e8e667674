package notify

import (
	"fmt"
	"time"
)

const completionSubject = "Your Running Form Analysis is Ready!"

// FormatElapsed renders a processing duration as "M minutes S seconds".
func FormatElapsed(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	total := int(elapsed.Round(time.Second).Seconds())
	return fmt.Sprintf("%d minutes %d seconds", total/60, total%60)
}

func completionHTML(videoName, videoURL string, elapsed time.Duration) string {
	processedAt := time.Now().Format("January 2, 2006 at 3:04 PM")
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Running Form Analysis Complete</title></head>
<body style="font-family: sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1>Your Analysis is Complete!</h1>
  <p>Your running form analysis has been successfully completed. We've processed
  your video and created a detailed analysis with posture angles, metrics, and
  visual overlays.</p>
  <p><strong>Original Video:</strong> %s<br>
  <strong>Processed:</strong> %s<br>
  <strong>Processing Time:</strong> %s</p>
  <p><a href="%s" style="display: inline-block; background-color: #3498db; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">View Your Analysis Video</a></p>
  <p><strong>What's included in your analysis:</strong></p>
  <ul>
    <li>Posture angle measurements</li>
    <li>Running form metrics</li>
    <li>Visual skeleton overlay</li>
  </ul>
  <p style="color: #7f8c8d; font-size: 14px;">Thank you for using our Running
  Form Analysis service! This is an automated message. Please do not reply to
  this email.</p>
</body>
</html>`, videoName, processedAt, FormatElapsed(elapsed), videoURL)
}

func completionText(videoName, videoURL string, elapsed time.Duration) string {
	processedAt := time.Now().Format("January 2, 2006 at 3:04 PM")
	return fmt.Sprintf(`Your Running Form Analysis is Ready!

Your running form analysis has been successfully completed. We've processed
your video and created a detailed analysis with posture angles, metrics, and
visual overlays.

Original Video: %s
Processed: %s
Processing Time: %s

Your annotated video is ready for viewing:
%s

Thank you for using our Running Form Analysis service!
This is an automated message. Please do not reply to this email.`,
		videoName, processedAt, FormatElapsed(elapsed), videoURL)
}
