// Package notifier announces academic calendar revisions.
//
// `ewucal watch` compares each calendar's revision date with the last one it
// saw and hands the differences to a Notifier. Changes can be printed (dry run)
// or published to an AWS SNS topic.
package notifier
