package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ProvisionFunc prepares the data the model browses. It reports status lines on
// progress and must not close it.
type ProvisionFunc func(progress chan<- string) error

// provisioningStartedMsg carries the channels of a running provisioning job
type provisioningStartedMsg struct {
	progressChan <-chan string
	resultChan   <-chan error
}

// provisionStatusMsg is a progress line from the provisioning job
type provisionStatusMsg string

// provisionResultMsg is sent when the provisioning job finishes
type provisionResultMsg struct {
	err error
}

// initiateProvisioning starts fn in a goroutine and hands its channels to the model
func initiateProvisioning(fn ProvisionFunc) tea.Cmd {
	return func() tea.Msg {
		progressChan := make(chan string, 10)
		resultChan := make(chan error, 1)

		go func() {
			err := fn(progressChan)
			close(progressChan)
			resultChan <- err
		}()

		return provisioningStartedMsg{
			progressChan: progressChan,
			resultChan:   resultChan,
		}
	}
}

// waitForProvisionStatus waits for the next progress line. It yields no
// message once the channel is closed.
func waitForProvisionStatus(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return provisionStatusMsg(status)
	}
}

// waitForProvisionResult waits for the provisioning job to finish
func waitForProvisionResult(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return provisionResultMsg{err: <-ch}
	}
}
