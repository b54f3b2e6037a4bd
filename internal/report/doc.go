// Package report writes run reports: the unmatched.log listing photos no
// album claimed, and XLSX exports of journaled runs.
package report
