// Package domain contains the core business entities of the task manager:
// users, the categories they define, and the tasks they own. Entities carry
// their own validation rules and know nothing about storage or transport.
package domain
